package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/services"
	"github.com/passy1977/pocket-web-backend/internal/common"
)

// Groups lists the groups under the current one. Groups with children are
// marked with a trailing "/".
func (a *App) Groups(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	list := a.tree.ListWithChildFlag(ctx, a.currentGroupID(), strings.Join(args, " "))
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No groups")
		return nil
	}
	for _, g := range list {
		title := g.Title
		if g.HasChild {
			title += "/"
		}
		fmt.Fprintf(a.out, "%s %s\n", color.CyanString("[%d]", g.ID), title)
	}
	return nil
}

func (a *App) Cd(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := parseID(args, "cd <id>")
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	g, ok := a.tree.GetGroup(ctx, id)
	if !ok {
		return a.report(fmt.Sprintf("cd %d", id), common.StatDBGroupError)
	}
	a.path = append(a.path, g)
	return nil
}

func (a *App) Up(ctx context.Context) error {
	if len(a.path) > 0 {
		a.path = a.path[:len(a.path)-1]
	}
	return nil
}

func (a *App) requireGroup() (*models.Group, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	g := a.currentGroup()
	if g == nil {
		fmt.Fprintln(a.out, failMark()+" No group selected, use "+hint("cd <id>"))
		return nil, errNoGroup
	}
	return g, nil
}

var errNoGroup = errors.New("no group selected")

// Show prints the current group with its fields, organised by category.
// Hidden values are masked.
func (a *App) Show(ctx context.Context, args []string) error {
	g, err := a.requireGroup()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, color.New(color.Bold).Sprint(g.Title))
	if g.Note != "" {
		fmt.Fprintln(a.out, g.Note)
	}

	fields := a.tree.ListFields(ctx, g.ID, strings.Join(args, " "))
	byCategory := make(map[int64][]*models.Field)
	for _, f := range fields {
		byCategory[f.GroupFieldID] = append(byCategory[f.GroupFieldID], f)
	}

	for _, gf := range a.tree.ListGroupFields(ctx, g.ID) {
		fmt.Fprintf(a.out, "%s %s\n", color.CyanString("[%d]", gf.ID), color.YellowString(gf.Title))
		for _, f := range byCategory[gf.ID] {
			fmt.Fprintf(a.out, "    %s %s\n", color.CyanString("[%d]", f.ID), f)
		}
		delete(byCategory, gf.ID)
	}
	for _, rest := range byCategory {
		for _, f := range rest {
			fmt.Fprintf(a.out, "%s %s\n", color.CyanString("[%d]", f.ID), f)
		}
	}
	return nil
}

// AddGroup creates a group under the current one.
func (a *App) AddGroup(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	icon, err := getSimpleText(a.reader, "Icon (optional)", a.out)
	if err != nil {
		return err
	}
	note, err := getMultiline(a.reader, "Note (optional)", a.out)
	if err != nil {
		return err
	}

	g := &models.Group{Title: title, Icon: icon, Note: note, GroupID: a.currentGroupID()}
	st := a.withSpinner("Saving...", func() common.Stat {
		return a.tree.PersistGroup(ctx, g, services.SyncReport)
	})
	return a.report(fmt.Sprintf("addgroup %q (id %d)", title, g.ID), st)
}

// Edit changes the current group and its categories. Category changes are
// staged until the edit is committed with an empty line:
//
//	+title   add a category, +!title adds a hidden one
//	-id      remove a category together with its fields
//	cancel   drop every staged change
func (a *App) Edit(ctx context.Context) error {
	g, err := a.requireGroup()
	if err != nil {
		return err
	}
	edited := g.Clone()
	if st := a.tree.BeginEdit(ctx, edited); !st.IsSuccess() {
		return a.report("edit", st)
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", g.Title), a.out)
	if err != nil {
		a.tree.CancelEdit()
		return err
	}
	if title != "" {
		edited.Title = title
	}
	note, err := getSimpleText(a.reader, "Note (empty keeps the current one)", a.out)
	if err != nil {
		a.tree.CancelEdit()
		return err
	}
	if note != "" {
		edited.Note = note
	}

	for {
		for _, gf := range a.tree.Staged() {
			mark := ""
			if gf.IsHidden {
				mark = " (hidden)"
			}
			fmt.Fprintf(a.out, "  %s %s%s\n", color.CyanString("[%d]", gf.ID), gf.Title, mark)
		}
		line, err := getSimpleText(a.reader, "+title, +!title, -id, cancel, or empty to save", a.out)
		if err != nil {
			a.tree.CancelEdit()
			return err
		}

		switch {
		case line == "":
			st := a.withSpinner("Saving...", func() common.Stat {
				return a.tree.CommitEdit(ctx, edited, services.SyncReport)
			})
			a.tree.CancelEdit()
			if fresh, ok := a.tree.GetGroup(ctx, g.ID); ok {
				*g = *fresh
			}
			return a.report("edit", st)
		case line == "cancel":
			a.tree.CancelEdit()
			fmt.Fprintln(a.out, "Edit canceled")
			return nil
		case strings.HasPrefix(line, "+!"):
			a.tree.AddGroupField(strings.TrimSpace(line[2:]), true)
		case strings.HasPrefix(line, "+"):
			a.tree.AddGroupField(strings.TrimSpace(line[1:]), false)
		case strings.HasPrefix(line, "-"):
			id, err := strconv.ParseInt(strings.TrimSpace(line[1:]), 10, 64)
			if err != nil {
				fmt.Fprintln(a.out, "invalid id")
				continue
			}
			a.tree.RemoveGroupField(id)
		default:
			fmt.Fprintln(a.out, "unrecognised input")
		}
	}
}

func (a *App) RmGroup(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := parseID(args, "rmgroup <id>")
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	g, ok := a.tree.GetGroup(ctx, id)
	if !ok {
		return a.report(fmt.Sprintf("rmgroup %d", id), common.StatDBGroupError)
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q and everything in it? (y/N)", g.Title), a.out)
	if err != nil || !isYes(answer) {
		return err
	}

	st := a.withSpinner("Deleting...", func() common.Stat {
		return a.tree.DeleteGroup(ctx, g, services.SyncReport)
	})
	for i, p := range a.path {
		if p.ID == id {
			a.path = a.path[:i]
			break
		}
	}
	return a.report(fmt.Sprintf("rmgroup %d", id), st)
}

// AddField adds a field to the current group, optionally inside a category.
// Hidden values are read without echo.
func (a *App) AddField(ctx context.Context) error {
	g, err := a.requireGroup()
	if err != nil {
		return err
	}

	f := &models.Field{GroupID: g.ID}
	categories := a.tree.ListGroupFields(ctx, g.ID)
	if len(categories) > 0 {
		for _, gf := range categories {
			fmt.Fprintf(a.out, "  %s %s\n", color.CyanString("[%d]", gf.ID), gf.Title)
		}
		raw, err := getSimpleText(a.reader, "Category id (optional)", a.out)
		if err != nil {
			return err
		}
		if raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				fmt.Fprintln(a.out, "invalid id")
				return err
			}
			f.GroupFieldID = id
			for _, gf := range categories {
				if gf.ID == id {
					f.IsHidden = gf.IsHidden
				}
			}
		}
	}

	if f.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if !f.IsHidden {
		answer, err := getSimpleText(a.reader, "Hidden? (y/N)", a.out)
		if err != nil {
			return err
		}
		f.IsHidden = isYes(answer)
	}
	if f.IsHidden {
		value, err := getPassword(a.out, "Value")
		if err != nil {
			return err
		}
		f.Value = string(value)
		common.WipeByteArray(value)
	} else if f.Value, err = getSimpleText(a.reader, "Value", a.out); err != nil {
		return err
	}

	st := a.withSpinner("Saving...", func() common.Stat {
		return a.tree.PersistField(ctx, f, services.SyncReport)
	})
	return a.report(fmt.Sprintf("addfield %q (id %d)", f.Title, f.ID), st)
}

func (a *App) RmField(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := parseID(args, "rmfield <id>")
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	st := a.withSpinner("Deleting...", func() common.Stat {
		return a.tree.DeleteField(ctx, id, services.SyncReport)
	})
	return a.report(fmt.Sprintf("rmfield %d", id), st)
}

// Copy copies or moves a group or a field on the server:
//
//	cp group <src> <dst>   copy group src under group dst
//	mv field <src> <dst>   move field src into group dst
func (a *App) Copy(ctx context.Context, args []string, move bool) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	op := "cp"
	if move {
		op = "mv"
	}
	usage := op + " group|field <src> <dst>"
	if len(args) != 3 {
		fmt.Fprintln(a.out, "usage: "+usage)
		return fmt.Errorf("usage: %s", usage)
	}
	src, err := parseID(args[1:2], usage)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	dst, err := parseID(args[2:3], usage)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	var st common.Stat
	switch args[0] {
	case "group":
		st = a.withSpinner("Copying...", func() common.Stat {
			return a.tree.CopyGroup(ctx, src, dst, move, services.SyncReport)
		})
	case "field":
		st = a.withSpinner("Copying...", func() common.Stat {
			return a.tree.CopyField(ctx, src, dst, move, services.SyncReport)
		})
	default:
		fmt.Fprintln(a.out, "usage: "+usage)
		return fmt.Errorf("usage: %s", usage)
	}
	return a.report(strings.Join(append([]string{op}, args...), " "), st)
}
