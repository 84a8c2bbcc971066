package admin

import (
	"Classifieds/internal/config"
	"Classifieds/internal/repo"
	"Classifieds/internal/service"
	"context"
	"fmt"
	"strconv"
	"strings"
)

func taxonomyService(cfg *config.Config) (*service.TaxonomyService, func(), error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if sqlDB, err := db.DB(); err == nil {
		closeFn = func() { _ = sqlDB.Close() }
	}
	return service.NewTaxonomyService(repo.NewTaxonomyRepository(db), repo.NewItemRepository(db)), closeFn, nil
}

type sectionsCmd struct{}

func (sectionsCmd) Name() string        { return "sections" }
func (sectionsCmd) Description() string { return "List sections and groups with active item counts" }
func (sectionsCmd) Usage() string       { return "sections" }

func (sectionsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	svc, closeFn, err := taxonomyService(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	idx, err := svc.Index(ctx)
	if err != nil {
		return err
	}
	if len(idx.Sections) == 0 {
		fmt.Fprintln(Out, "(no sections)")
		return nil
	}
	for _, s := range idx.Sections {
		fmt.Fprintf(Out, "%d\t%s\t(%d)\n", s.ID, s.Title, s.ActiveItems)
		for _, g := range idx.Groups {
			if g.SectionID == s.ID {
				fmt.Fprintf(Out, "  %d\t%s\t%s\t(%d)\n", g.ID, g.Title, g.Slug, g.ActiveItems)
			}
		}
	}
	return nil
}

type sectionAddCmd struct{}

func (sectionAddCmd) Name() string        { return "section-add" }
func (sectionAddCmd) Description() string { return "Create a section" }
func (sectionAddCmd) Usage() string       { return "section-add <title>" }

func (sectionAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	svc, closeFn, err := taxonomyService(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	s, err := svc.CreateSection(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "section %d created: %s\n", s.ID, s.Title)
	return nil
}

type groupAddCmd struct{}

func (groupAddCmd) Name() string        { return "group-add" }
func (groupAddCmd) Description() string { return "Create a group inside a section" }
func (groupAddCmd) Usage() string       { return "group-add <section_id> <title>" }

func (groupAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	sectionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || sectionID <= 0 {
		return ErrUsage
	}
	svc, closeFn, err := taxonomyService(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	g, err := svc.CreateGroup(ctx, sectionID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "group %d created: %s (%s)\n", g.ID, g.Title, g.Slug)
	return nil
}

func init() {
	RegisterCmd(sectionsCmd{})
	RegisterCmd(sectionAddCmd{})
	RegisterCmd(groupAddCmd{})
}
