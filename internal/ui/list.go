package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
)

var (
	_ list.Item = programItem{}
	_ list.Item = favoriteItem{}
)

// programItem wraps [models.Program] to implement [list.Item]. The
// marker prefix shows favorite and selection state.
type programItem struct {
	program   models.Program
	favorited bool
	selected  bool
}

func (i programItem) FilterValue() string { return i.program.Name }

func (i programItem) Title() string {
	marker := ""
	if i.selected {
		marker += "[x] "
	}
	if i.favorited {
		marker += "★ "
	}
	return marker + shared.SanitizeText(i.program.Name)
}

func (i programItem) Description() string {
	desc := shared.SanitizeText(i.program.University.Name)
	if i.program.DegreeLevel != "" {
		desc = fmt.Sprintf("%s • %s", desc, shared.SanitizeText(i.program.DegreeLevel))
	}
	if i.program.FieldOfStudy != "" {
		desc = fmt.Sprintf("%s • %s", desc, shared.SanitizeText(i.program.FieldOfStudy))
	}
	return desc
}

// favoriteItem wraps [models.Favorite] to implement [list.Item].
type favoriteItem struct {
	favorite *models.Favorite
}

func (i favoriteItem) FilterValue() string { return i.favorite.Name() }
func (i favoriteItem) Title() string       { return shared.SanitizeText(i.favorite.Name()) }
func (i favoriteItem) Description() string {
	desc := shared.SanitizeText(i.favorite.University())
	if i.favorite.DegreeLevel() != "" {
		desc = fmt.Sprintf("%s • %s", desc, shared.SanitizeText(i.favorite.DegreeLevel()))
	}
	return desc
}
