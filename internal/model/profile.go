package model

import "time"

// SocialLinks is stored as JSONB on profiles.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Website   string `json:"website,omitempty"`
}

type Profile struct {
	UserID              string
	BackgroundColor     string
	ButtonStyle         string
	ButtonColor         string
	TextColor           string
	FontFamily          string
	Theme               string
	ParticleEffect      string
	SocialLinks         SocialLinks
	EmailCaptureEnabled bool
	EmailCaptureTitle   string
	TipJarEnabled       bool
	UpiID               *string
	TipJarTitle         string
	TipJarDescription   *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProfileUpdate carries the optional fields of a profile patch.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	BackgroundColor     *string
	ButtonStyle         *string
	ButtonColor         *string
	TextColor           *string
	FontFamily          *string
	Theme               *string
	ParticleEffect      *string
	SocialLinks         *SocialLinks
	EmailCaptureEnabled *bool
	EmailCaptureTitle   *string
	TipJarEnabled       *bool
	UpiID               *string
	TipJarTitle         *string
	TipJarDescription   *string
}

// Palette is the color set a theme applies.
type Palette struct {
	Background string
	Button     string
	Text       string
}

var Themes = map[string]Palette{
	"light":    {Background: "#ffffff", Button: "#000000", Text: "#ffffff"},
	"dark":     {Background: "#1a1a2e", Button: "#ffffff", Text: "#000000"},
	"ocean":    {Background: "#0077b6", Button: "#ffffff", Text: "#0077b6"},
	"sunset":   {Background: "#ff6b6b", Button: "#ffffff", Text: "#ff6b6b"},
	"forest":   {Background: "#2d6a4f", Button: "#ffffff", Text: "#2d6a4f"},
	"lavender": {Background: "#7b68ee", Button: "#ffffff", Text: "#7b68ee"},
}

var (
	ButtonStyles    = []string{"rounded", "square", "soft"}
	ParticleEffects = []string{"confetti", "stars", "bubbles", "snow", "hearts", "none"}
)

// TipPresets are the suggested tip amounts in rupees.
var TipPresets = []int{49, 99, 199, 499}
