// Package profile describes the host page markup the engine automates:
// which elements are posts, where the action row lives, and how the
// share/embed dialog is reached. The host page can rename any of these at
// any release; the profile file lets a deployment track such changes
// without a rebuild. Defaults match bsky.app.
package profile

import "time"

// Profile is the selector set and timing for one host page.
type Profile struct {
	// BaseURL is the host page origin (ex: https://bsky.app).
	BaseURL string `yaml:"base_url"`

	// EmbedHost is the origin serving embed widgets. Window messages for
	// the sizing handshake are trusted only from this origin.
	EmbedHost string `yaml:"embed_host"`

	// ItemSelector matches one rendered post.
	ItemSelector string `yaml:"item_selector"`
	// ItemTestIDPrefix is the data-testid prefix carrying the post
	// discriminator, ex: "postThreadItem-" for "postThreadItem-3kabc42".
	ItemTestIDPrefix string `yaml:"item_testid_prefix"`

	// ShareButton gates attachment: a post without it has no action row
	// rendered yet and is skipped until its next mutation.
	ShareButton string `yaml:"share_button"`
	// ActionRow is the row the toggle control is inserted into.
	ActionRow string `yaml:"action_row"`
	// ProfileLink is the anchor carrying the author handle.
	ProfileLink string `yaml:"profile_link"`

	// OptionsButton opens the post's options menu.
	OptionsButton string `yaml:"options_button"`
	// EmbedMenuEntry is the "embed" entry inside the opened menu.
	EmbedMenuEntry string `yaml:"embed_menu_entry"`
	// EmbedInput is the input field populated with embed markup.
	EmbedInput string `yaml:"embed_input"`

	// CloseButtons are tried in order to dismiss transient dialogs.
	CloseButtons []string `yaml:"close_buttons"`
	// Dialogs matches any open dialog or menu, for the click-outside
	// fallback when no close button is found.
	Dialogs string `yaml:"dialogs"`

	// SidebarNav is the navigation container the bookmarks menu item is
	// inserted into, and SettingsLink the entry it is inserted before.
	SidebarNav   string `yaml:"sidebar_nav"`
	SettingsLink string `yaml:"settings_link"`

	// Settle delays in milliseconds. The host page exposes no completion
	// signal for menu opening or field population, so the pipeline waits
	// a fixed bound before inspecting the result.
	MenuSettleMs  int `yaml:"menu_settle_ms"`
	FieldSettleMs int `yaml:"field_settle_ms"`

	// ToastMs is how long injected notices stay on screen.
	ToastMs int `yaml:"toast_ms"`
}

// MenuSettle returns the options-menu settle delay.
func (p Profile) MenuSettle() time.Duration {
	if p.MenuSettleMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(p.MenuSettleMs) * time.Millisecond
}

// FieldSettle returns the embed-field settle delay.
func (p Profile) FieldSettle() time.Duration {
	if p.FieldSettleMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(p.FieldSettleMs) * time.Millisecond
}

// ToastDuration returns how long notices stay on screen.
func (p Profile) ToastDuration() time.Duration {
	if p.ToastMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(p.ToastMs) * time.Millisecond
}

// Default returns the built-in bsky.app profile.
func Default() Profile {
	return Profile{
		BaseURL:          "https://bsky.app",
		EmbedHost:        "https://embed.bsky.app",
		ItemSelector:     `[data-testid^="postThreadItem-"]`,
		ItemTestIDPrefix: "postThreadItem-",
		ShareButton:      `[data-testid="shareBtn"]`,
		ActionRow:        `.css-175oi2r[style*="flex-direction: row; justify-content: space-between; align-items: center;"]`,
		ProfileLink:      `a[href^="/profile/"]`,
		OptionsButton:    `[data-testid="postDropdownBtn"]`,
		EmbedMenuEntry:   `[data-testid="postDropdownEmbedBtn"]`,
		EmbedInput:       `input[placeholder="Embed HTML code"]`,
		CloseButtons: []string{
			`button[aria-label="Close active dialog"]`,
			`button[aria-label="Close"]`,
			`[data-testid="closeButton"]`,
			`button[aria-label="Close dialog"]`,
		},
		Dialogs:       `[role="dialog"], [role="menu"]`,
		SidebarNav:    `[role="navigation"]`,
		SettingsLink:  `a[href="/settings"]`,
		MenuSettleMs:  500,
		FieldSettleMs: 500,
		ToastMs:       3000,
	}
}
