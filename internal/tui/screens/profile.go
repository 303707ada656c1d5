package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobdeck/jobdeck/internal/auth"
)

type profileMode int

const (
	profileModeView profileMode = iota
	profileModeEditName
	profileModeEditAvatar
)

type Profile struct {
	auth    *auth.Manager
	session *auth.Session
	width   int
	height  int

	mode    profileMode
	input   textinput.Model
	err     error
	message string
}

func NewProfile(manager *auth.Manager, session *auth.Session) *Profile {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return &Profile{
		auth:    manager,
		session: session,
		input:   ti,
	}
}

func (p *Profile) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *Profile) Init() tea.Cmd {
	p.mode = profileModeView
	p.message = ""
	return nil
}

func (p *Profile) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.mode != profileModeView {
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return cmd
		}
		return nil
	}

	if p.mode == profileModeView {
		switch keyMsg.String() {
		case "n":
			p.mode = profileModeEditName
			p.input.Placeholder = "Display name"
			p.input.SetValue(p.session.DisplayName)
			p.input.Focus()
		case "v":
			p.mode = profileModeEditAvatar
			p.input.Placeholder = "Avatar URL"
			p.input.SetValue(p.session.AvatarURL)
			p.input.Focus()
		case "s":
			return SignOut()
		case "q", "esc":
			return Navigate("dashboard")
		}
		return nil
	}

	switch keyMsg.String() {
	case "enter":
		return p.save()
	case "esc":
		p.mode = profileModeView
		p.input.Blur()
	default:
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(keyMsg)
		return cmd
	}
	return nil
}

func (p *Profile) save() tea.Cmd {
	value := strings.TrimSpace(p.input.Value())

	name := p.session.DisplayName
	avatar := p.session.AvatarURL
	if p.mode == profileModeEditName {
		name = value
	} else {
		avatar = value
	}

	if err := p.auth.UpdateProfile(p.session.UserID, name, avatar); err != nil {
		p.err = err
	} else {
		p.session.DisplayName = name
		p.session.AvatarURL = avatar
		p.message = "Profile updated"
	}

	p.mode = profileModeView
	p.input.Blur()
	return nil
}

func (p *Profile) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("PROFILE"))
	b.WriteString("\n\n")

	if p.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", p.err)))
		b.WriteString("\n\n")
		p.err = nil
	}

	if p.message != "" {
		b.WriteString(SuccessStyle.Render(p.message))
		b.WriteString("\n\n")
	}

	if p.mode != profileModeView {
		label := "Display name:"
		if p.mode == profileModeEditAvatar {
			label = "Avatar URL:"
		}
		b.WriteString(label + "\n")
		b.WriteString(p.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()
	}

	name := p.session.DisplayName
	if name == "" {
		name = DimStyle.Render("(not set)")
	}
	avatar := p.session.AvatarURL
	if avatar == "" {
		avatar = DimStyle.Render("(not set)")
	}

	details := fmt.Sprintf("Email: %s\nDisplay name: %s\nAvatar URL: %s",
		p.session.Email, name, avatar)
	b.WriteString(BoxStyle.Render(details))
	b.WriteString("\n\n")

	help := "[n] Edit name  [v] Edit avatar  [s] Sign out  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
