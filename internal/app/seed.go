package app

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"netros/internal/domain"
)

//go:embed seeddata/principles.yaml
var principlesYAML []byte

type seedFile struct {
	NSM  seedFramework `yaml:"nsm"`
	Ekom seedFramework `yaml:"ekom"`
}

type seedFramework struct {
	Version       string          `yaml:"version"`
	EffectiveDate time.Time       `yaml:"effective_date"`
	Principles    []seedPrinciple `yaml:"principles"`
}

type seedPrinciple struct {
	Code        string `yaml:"code"`
	Category    string `yaml:"category"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	LegalText   string `yaml:"legal_text"`
	SortOrder   int    `yaml:"sort_order"`
}

// SeedPrinciples loads the NSM and Ekomforskriften reference data from the
// embedded catalogue. Idempotent: principles that already exist (by
// framework and code) are left untouched, so a redeploy never resets
// sort order tweaks or deprecations done in the database.
func SeedPrinciples(ctx context.Context, repo domain.PrincipleRepository) (int, error) {
	var file seedFile
	if err := yaml.Unmarshal(principlesYAML, &file); err != nil {
		return 0, fmt.Errorf("parse principle seed data: %w", err)
	}

	created := 0
	for _, fw := range []struct {
		framework domain.Framework
		data      seedFramework
	}{
		{domain.FrameworkNSM, file.NSM},
		{domain.FrameworkEkom, file.Ekom},
	} {
		n, err := seedOneFramework(ctx, repo, fw.framework, fw.data)
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

func seedOneFramework(ctx context.Context, repo domain.PrincipleRepository, framework domain.Framework, data seedFramework) (int, error) {
	created := 0
	for _, sp := range data.Principles {
		_, err := repo.GetByCode(ctx, framework, sp.Code)
		if err == nil {
			continue // already present
		}
		var nf *domain.NotFoundError
		if !errors.As(err, &nf) {
			return created, fmt.Errorf("look up principle %s/%s: %w", framework, sp.Code, err)
		}

		p := &domain.Principle{
			Framework: framework,
			Code:      sp.Code,
			Category:  sp.Category,
			Title:     sp.Title,
			SortOrder: sp.SortOrder,
			Version:   data.Version,
		}
		if sp.Description != "" {
			desc := sp.Description
			p.Description = &desc
		}
		if sp.LegalText != "" {
			legal := sp.LegalText
			p.LegalText = &legal
		}
		if !data.EffectiveDate.IsZero() {
			eff := data.EffectiveDate
			p.EffectiveDate = &eff
		}

		if _, err := repo.Create(ctx, p); err != nil {
			return created, fmt.Errorf("seed %s principle %s: %w", framework, sp.Code, err)
		}
		created++
	}
	return created, nil
}
