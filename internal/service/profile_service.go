package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/rs/zerolog"
)

// ProfileInput is a profile patch. Title and Bio live on the user row.
type ProfileInput struct {
	Title *string
	Bio   *string
	model.ProfileUpdate
}

// TipOption is a preset tip amount with its UPI deep link.
type TipOption struct {
	Amount int
	PayURL string
}

type TipJar struct {
	Title       string
	Description string
	UpiID       string
	PayURL      string
	Options     []TipOption
}

// PublicPage is everything a renderer needs for /{username}.
type PublicPage struct {
	User         *model.User
	Profile      *model.Profile
	Links        []model.Link
	IsPro        bool
	EmailCapture bool
	TipJar       *TipJar
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.User, *model.Profile, error)
	Update(ctx context.Context, userID string, in ProfileInput) (*model.User, *model.Profile, error)
	GetPublic(ctx context.Context, username string) (*PublicPage, error)
}

type profileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	links    repository.LinkRepository
	now      func() time.Time
	logger   zerolog.Logger
}

func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, links repository.LinkRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		users:    users,
		profiles: profiles,
		links:    links,
		now:      time.Now,
		logger:   logger.With().Str("service", "ProfileService").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.User, *model.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrUserNotFound
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, fmt.Errorf("profile missing for user %s", userID)
	}
	return u, p, nil
}

func (s *profileService) Update(ctx context.Context, userID string, in ProfileInput) (*model.User, *model.Profile, error) {
	u, current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	plan := model.PlanFor(u, s.now())

	upd := in.ProfileUpdate
	if err := applyTheme(&upd, current, plan); err != nil {
		return nil, nil, err
	}
	if upd.EmailCaptureEnabled != nil && *upd.EmailCaptureEnabled && !plan.EmailCapture {
		return nil, nil, &ProRequiredError{Feature: "emailCaptureEnabled"}
	}
	if upd.TipJarEnabled != nil && *upd.TipJarEnabled {
		if !plan.TipJar {
			return nil, nil, &ProRequiredError{Feature: "tipJarEnabled"}
		}
		upi := current.UpiID
		if upd.UpiID != nil {
			upi = upd.UpiID
		}
		if upi == nil || strings.TrimSpace(*upi) == "" {
			return nil, nil, ErrUpiIDRequired
		}
	}

	if in.Title != nil || in.Bio != nil {
		if err := s.users.UpdateNameBio(ctx, userID, in.Title, in.Bio); err != nil {
			return nil, nil, err
		}
		if in.Title != nil {
			u.Name = *in.Title
		}
		if in.Bio != nil {
			u.Bio = in.Bio
		}
	}
	p, err := s.profiles.Update(ctx, userID, upd)
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// applyTheme expands a theme choice into its palette and rejects explicit
// colors that do not match the palette when the plan lacks custom colors.
func applyTheme(upd *model.ProfileUpdate, current *model.Profile, plan model.Plan) error {
	themeID := current.Theme
	if upd.Theme != nil {
		themeID = *upd.Theme
	}
	palette, known := model.Themes[themeID]

	custom := func(given *string, paletteColor string) bool {
		return given != nil && (!known || !strings.EqualFold(*given, paletteColor))
	}
	if !plan.CustomColors &&
		(custom(upd.BackgroundColor, palette.Background) ||
			custom(upd.ButtonColor, palette.Button) ||
			custom(upd.TextColor, palette.Text)) {
		return &ProRequiredError{Feature: "customColors"}
	}

	if upd.Theme != nil && known {
		if upd.BackgroundColor == nil {
			upd.BackgroundColor = &palette.Background
		}
		if upd.ButtonColor == nil {
			upd.ButtonColor = &palette.Button
		}
		if upd.TextColor == nil {
			upd.TextColor = &palette.Text
		}
	}
	return nil
}

func (s *profileService) GetPublic(ctx context.Context, username string) (*PublicPage, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	p, err := s.profiles.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	links, err := s.links.ListByUser(ctx, u.ID, true)
	if err != nil {
		return nil, err
	}

	page := &PublicPage{User: u, Profile: p, Links: links, IsPro: u.IsPro(s.now())}
	// Pro features stop rendering once the plan lapses.
	page.EmailCapture = page.IsPro && p.EmailCaptureEnabled
	if page.IsPro && p.TipJarEnabled && p.UpiID != nil && *p.UpiID != "" {
		page.TipJar = buildTipJar(u.Name, p)
	}
	return page, nil
}

func buildTipJar(name string, p *model.Profile) *TipJar {
	jar := &TipJar{
		Title:   p.TipJarTitle,
		UpiID:   *p.UpiID,
		PayURL:  UPIPayURL(*p.UpiID, name, 0),
		Options: make([]TipOption, 0, len(model.TipPresets)),
	}
	if p.TipJarDescription != nil {
		jar.Description = *p.TipJarDescription
	}
	for _, amount := range model.TipPresets {
		jar.Options = append(jar.Options, TipOption{Amount: amount, PayURL: UPIPayURL(*p.UpiID, name, amount)})
	}
	return jar
}

// UPIPayURL builds a upi://pay deep link. amount <= 0 lets the payer choose.
func UPIPayURL(upiID, name string, amount int) string {
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(url.QueryEscape(upiID))
	b.WriteString("&pn=")
	b.WriteString(url.QueryEscape(name))
	b.WriteString("&cu=INR")
	if amount > 0 {
		fmt.Fprintf(&b, "&am=%d", amount)
	}
	b.WriteString("&tn=")
	b.WriteString(url.QueryEscape("Tip for " + name))
	return b.String()
}
