package prompts

import (
	"fmt"
	"strings"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/parse"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

const selectionFile = "selection.json"

// floorBulletRequest is the smallest bullet count ever asked of a model.
// Over-asking gives the diversity filter room to enforce caps without
// starving any company.
const floorBulletRequest = 30

// MinBulletCount returns how many bullets to request from the model for a
// given selection config. Always exceeds the final target so the diversity
// pass has alternatives to choose from.
func MinBulletCount(cfg types.SelectionConfig) int {
	if n := cfg.MaxBullets + 10; n > floorBulletRequest {
		return n
	}
	return floorBulletRequest
}

// BuildSelectionPrompt assembles the system and user prompts for a selection
// request. A non-nil feedback prepends the previous attempt's error so the
// model sees the correction before the task.
func BuildSelectionPrompt(jobDescription string, c *types.Compendium, cfg types.SelectionConfig, feedback *parse.ParseError) (system, user string, err error) {
	system, err = Get(selectionFile, "system")
	if err != nil {
		return "", "", err
	}

	template, err := Get(selectionFile, "select-bullets")
	if err != nil {
		return "", "", err
	}
	user = Format(template, map[string]string{
		"MinBullets":     fmt.Sprintf("%d", MinBulletCount(cfg)),
		"JobDescription": strings.TrimSpace(jobDescription),
		"Inventory":      RenderInventory(c),
	})

	if feedback != nil {
		retry, err := Get(selectionFile, "retry-feedback")
		if err != nil {
			return "", "", err
		}
		user = Format(retry, map[string]string{
			"Code":    string(feedback.Code),
			"Message": feedback.Message,
			"Help":    feedback.Help,
		}) + "\n\n" + user
	}

	return system, user, nil
}

// RenderInventory flattens the experience hierarchy into the bullet inventory
// shown to the model. Every selectable bullet, including the synthetic
// position-description bullets, appears as exactly one "[id=...]" line, so
// the rendered ids match the compendium index one to one.
func RenderInventory(c *types.Compendium) string {
	var b strings.Builder

	for ci := range c.Companies {
		company := &c.Companies[ci]
		fmt.Fprintf(&b, "## %s (%s)\n", company.Name, dateRange(company.DateStart, company.DateEnd))

		for pi := range company.Children {
			position := &company.Children[pi]
			fmt.Fprintf(&b, "### %s (%s)\n", position.Name, dateRange(position.DateStart, position.DateEnd))

			if position.Description != "" {
				writeBulletLine(&b, compendium.DescriptionBulletID(position.ID), position.Priority, position.Description, position.Tags)
			}
			for bi := range position.Children {
				bullet := &position.Children[bi]
				writeBulletLine(&b, bullet.ID, bullet.Priority, bullet.Description, bullet.Tags)
			}
			b.WriteByte('\n')
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func dateRange(start, end string) string {
	if end == "" {
		return start + " - present"
	}
	return start + " - " + end
}

func writeBulletLine(b *strings.Builder, id string, priority int, text string, tags []types.Tag) {
	fmt.Fprintf(b, "- [id=%s] (priority %d) %s", id, priority, strings.TrimSpace(text))
	if len(tags) > 0 {
		parts := make([]string, len(tags))
		for i, tag := range tags {
			parts[i] = string(tag)
		}
		fmt.Fprintf(b, " [tags: %s]", strings.Join(parts, ", "))
	}
	b.WriteByte('\n')
}
