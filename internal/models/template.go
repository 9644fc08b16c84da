// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
)

// ContentType tags what a template produces. It selects the prompt defaults
// and decides whether images are rendered after generation.
type ContentType string

const (
	ContentTypeText   ContentType = "text"
	ContentTypeImages ContentType = "images"
	ContentTypeVideo  ContentType = "video"
)

// Template is a recurring content-generation and posting configuration
// scoped to a brand. The brand ID doubles as the document partition key.
type Template struct {
	ID       string           `json:"id" validate:"required"`
	BrandID  string           `json:"brandId" validate:"required"`
	Info     TemplateInfo     `json:"templateInfo"`
	Schedule Schedule         `json:"schedule"`
	Settings TemplateSettings `json:"templateSettings"`
	Metadata TemplateMetadata `json:"metadata"`
}

// TemplateInfo carries descriptive fields and the platforms to post to.
type TemplateInfo struct {
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	SocialAccounts []string `json:"socialAccounts,omitempty"`
}

// Schedule is the recurrence rule: the template fires on the listed weekdays
// at every time slot, each slot evaluated in its own timezone.
type Schedule struct {
	DaysOfWeek []string   `json:"daysOfWeek"`
	TimeSlots  []TimeSlot `json:"timeSlots" validate:"dive"`
}

// TimeSlot is one local time of day in an IANA timezone.
type TimeSlot struct {
	Hour     int    `json:"hour" validate:"min=0,max=23"`
	Minute   int    `json:"minute" validate:"min=0,max=59"`
	Timezone string `json:"timezone" validate:"required,timezone"`
}

// HasDay reports whether the schedule includes the named weekday,
// compared case-insensitively.
func (s Schedule) HasDay(weekday time.Weekday) bool {
	name := weekday.String()
	for _, d := range s.DaysOfWeek {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return true
		}
	}
	return false
}

// TemplateMetadata holds lifecycle fields. LastExecutionTime is the last
// instant (UTC) any slot of the template fired.
type TemplateMetadata struct {
	IsActive          bool       `json:"isActive"`
	LastExecutionTime *time.Time `json:"lastExecutionTime,omitempty"`
	CreatedDate       *time.Time `json:"createdDate,omitempty"`
	UpdatedDate       *time.Time `json:"updatedDate,omitempty"`
}

// TemplateSettings groups the content-generation configuration.
type TemplateSettings struct {
	PromptTemplate *PromptTemplate `json:"promptTemplate,omitempty"`
	ContentItem    *ContentItem    `json:"contentItem,omitempty"`
}

// ContentItem describes the artifact type and, for images, how to render them.
type ContentItem struct {
	ContentType    ContentType     `json:"contentType,omitempty" validate:"omitempty,oneof=text images video"`
	ImagesTemplate *ImagesTemplate `json:"imagesTemplate,omitempty"`
}

// ImagesTemplate lists the per-image templates. Image i is rendered with
// ImageTemplates[i].
type ImagesTemplate struct {
	NumImages      *int            `json:"numImages,omitempty"`
	ImageTemplates []ImageTemplate `json:"imageTemplates,omitempty" validate:"dive"`
}

// ContentTypeOrDefault returns the content item's type, "text" when unset.
func (s TemplateSettings) ContentTypeOrDefault() ContentType {
	if s.ContentItem == nil || s.ContentItem.ContentType == "" {
		return ContentTypeText
	}
	return s.ContentItem.ContentType
}

// ImageTemplates returns the configured per-image templates, or nil.
func (s TemplateSettings) ImageTemplates() []ImageTemplate {
	if s.ContentItem == nil || s.ContentItem.ImagesTemplate == nil {
		return nil
	}
	return s.ContentItem.ImagesTemplate.ImageTemplates
}

// NumImages returns the configured image count, or nil.
func (s TemplateSettings) NumImages() *int {
	if s.ContentItem == nil || s.ContentItem.ImagesTemplate == nil {
		return nil
	}
	return s.ContentItem.ImagesTemplate.NumImages
}

// PromptTemplate holds the prompts and sampling parameters for one
// generation. Placeholders use the {name} syntax.
type PromptTemplate struct {
	SystemPrompt string           `json:"systemPrompt,omitempty"`
	UserPrompt   string           `json:"userPrompt"`
	Variables    []PromptVariable `json:"variables,omitempty"`
	Temperature  *float64         `json:"temperature,omitempty"`
	MaxTokens    *int             `json:"maxTokens,omitempty"`
	Model        string           `json:"model,omitempty"`
	NumImages    *int             `json:"numImages,omitempty"`
}

// PromptVariable is a named placeholder with candidate values; one value is
// picked uniformly at random per generation.
type PromptVariable struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}
