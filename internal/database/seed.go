// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

const (
	seedBrandID    = "demo-brand"
	seedTemplateID = "demo-template"
)

// seedBrand has no social credentials, so seeded posts stop at "generated".
const seedBrand = `{
  "id": "demo-brand",
  "userId": "demo-user",
  "name": "Demo Brand",
  "description": "A calm lifestyle brand about focus and slow mornings",
  "socialAccounts": []
}`

const seedTemplate = `{
  "id": "demo-template",
  "brandId": "demo-brand",
  "templateInfo": {
    "name": "Weekday quote",
    "description": "Short motivational quote over a solid background",
    "socialAccounts": ["instagram"]
  },
  "schedule": {
    "daysOfWeek": ["monday", "wednesday", "friday"],
    "timeSlots": [{"hour": 9, "minute": 0, "timezone": "UTC"}]
  },
  "templateSettings": {
    "promptTemplate": {
      "systemPrompt": "Reply with JSON: {\"comment\": string, \"hashtags\": [string], \"images\": [{\"quote\": string}]} with {numImages} images.",
      "userPrompt": "Write a short post about {topic}.",
      "variables": [{"name": "topic", "values": ["focus", "rest", "small habits"]}]
    },
    "contentItem": {
      "contentType": "images",
      "imagesTemplate": {
        "numImages": 1,
        "imageTemplates": [{
          "aspectRatio": "square",
          "mediaType": "color",
          "visualStyleObj": {"themes": [{
            "backgroundColor": "#1f2937",
            "overlayBox": {"horizontalLocation": "center", "verticalLocation": "middle", "color": "#000000", "transparency": 0.4},
            "textStyle": {"font": {"family": "Arial", "size": "56px", "weight": "bold", "color": "#ffffff"}, "alignment": "center"}
          }]}
        }]
      }
    }
  },
  "metadata": {"isActive": false}
}`

// Seed populates the database with a demo brand and an inactive demo
// template if no templates exist yet.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check templates: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO brands (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		seedBrandID, seedBrand,
	); err != nil {
		return fmt.Errorf("seed insert brand: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO templates (id, brand_id, doc) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		seedTemplateID, seedBrandID, seedTemplate,
	); err != nil {
		return fmt.Errorf("seed insert template: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo brand and template",
		"brand_id", seedBrandID,
		"template_id", seedTemplateID,
	)
	return nil
}
