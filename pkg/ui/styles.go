package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/mrcool/pkg/notice"
	"github.com/go-go-golems/mrcool/pkg/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).PaddingLeft(1)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	welcomeStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).PaddingLeft(2)
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).PaddingLeft(2)
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	validationNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	serverNoticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	counterStyles = map[render.CounterLevel]lipgloss.Style{
		render.CounterNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		render.CounterWarn:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		render.CounterDanger: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

func noticeStyle(k notice.Kind) lipgloss.Style {
	if k == notice.KindServer {
		return serverNoticeStyle
	}
	return validationNoticeStyle
}
