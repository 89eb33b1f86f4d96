package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/ghostarr/ghostarr/internal/models"
)

var _ list.Item = templateItem{}

// templateItem wraps [models.Template] to implement [list.Item].
type templateItem struct {
	template models.Template
}

func (i templateItem) FilterValue() string { return i.template.Name }
func (i templateItem) Title() string {
	if i.template.IsDefault {
		return fmt.Sprintf("%s (default)", i.template.Name)
	}
	return i.template.Name
}
func (i templateItem) Description() string {
	desc := i.template.Description
	if len(i.template.Labels) > 0 {
		labels := ""
		for n, label := range i.template.Labels {
			if n > 0 {
				labels += ", "
			}
			labels += label.Name
		}
		if desc != "" {
			desc = fmt.Sprintf("%s • %s", desc, labels)
		} else {
			desc = labels
		}
	}
	return desc
}
