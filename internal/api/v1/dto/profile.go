package dto

type SocialLinksDTO struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Website   string `json:"website,omitempty"`
}

type ProfileUpdateDTO struct {
	Title               *string         `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Bio                 *string         `json:"bio,omitempty" validate:"omitempty,max=500"`
	BackgroundColor     *string         `json:"backgroundColor,omitempty" validate:"omitempty,hexcolor"`
	ButtonStyle         *string         `json:"buttonStyle,omitempty" validate:"omitempty,oneof=rounded square soft"`
	ButtonColor         *string         `json:"buttonColor,omitempty" validate:"omitempty,hexcolor"`
	TextColor           *string         `json:"textColor,omitempty" validate:"omitempty,hexcolor"`
	FontFamily          *string         `json:"fontFamily,omitempty" validate:"omitempty,max=50"`
	Theme               *string         `json:"theme,omitempty" validate:"omitempty,oneof=light dark ocean sunset forest lavender"`
	ParticleEffect      *string         `json:"particleEffect,omitempty" validate:"omitempty,oneof=confetti stars bubbles snow hearts none"`
	SocialLinks         *SocialLinksDTO `json:"socialLinks,omitempty"`
	EmailCaptureEnabled *bool           `json:"emailCaptureEnabled,omitempty"`
	EmailCaptureTitle   *string         `json:"emailCaptureTitle,omitempty" validate:"omitempty,max=100"`
	TipJarEnabled       *bool           `json:"tipJarEnabled,omitempty"`
	UpiID               *string         `json:"upiId,omitempty" validate:"omitempty,max=100"`
	TipJarTitle         *string         `json:"tipJarTitle,omitempty" validate:"omitempty,max=100"`
	TipJarDescription   *string         `json:"tipJarDescription,omitempty" validate:"omitempty,max=300"`
}

type ProfileDTO struct {
	BackgroundColor     string         `json:"backgroundColor"`
	ButtonStyle         string         `json:"buttonStyle"`
	ButtonColor         string         `json:"buttonColor"`
	TextColor           string         `json:"textColor"`
	FontFamily          string         `json:"fontFamily"`
	Theme               string         `json:"theme"`
	ParticleEffect      string         `json:"particleEffect"`
	SocialLinks         SocialLinksDTO `json:"socialLinks"`
	EmailCaptureEnabled bool           `json:"emailCaptureEnabled"`
	EmailCaptureTitle   string         `json:"emailCaptureTitle"`
	TipJarEnabled       bool           `json:"tipJarEnabled"`
	UpiID               *string        `json:"upiId"`
	TipJarTitle         string         `json:"tipJarTitle"`
	TipJarDescription   *string        `json:"tipJarDescription"`
}

type ProfileUserDTO struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
	Image    *string `json:"image"`
	Bio      *string `json:"bio"`
}

type ProfileResponseDTO struct {
	User    ProfileUserDTO `json:"user"`
	Profile ProfileDTO     `json:"profile"`
	Plan    PlanDTO        `json:"plan"`
}

type PublicUserDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

type TipOptionDTO struct {
	Amount int    `json:"amount"`
	PayURL string `json:"payUrl"`
}

type TipJarDTO struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	UpiID       string         `json:"upiId"`
	PayURL      string         `json:"payUrl"`
	Options     []TipOptionDTO `json:"options"`
}

type PublicProfileResponseDTO struct {
	User         PublicUserDTO     `json:"user"`
	Profile      ProfileDTO        `json:"profile"`
	Links        []LinkResponseDTO `json:"links"`
	IsPro        bool              `json:"isPro"`
	EmailCapture bool              `json:"emailCapture" doc:"Whether the subscribe form should render"`
	TipJar       *TipJarDTO        `json:"tipJar,omitempty"`
}
