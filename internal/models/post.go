// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
)

// PostStatus is the lifecycle state of a post record.
type PostStatus string

const (
	PostStatusGeneratingContent PostStatus = "generating_content"
	PostStatusGenerated         PostStatus = "generated"
	PostStatusPosting           PostStatus = "posting"
	PostStatusPosted            PostStatus = "posted"
	PostStatusError             PostStatus = "error"
)

// postTransitions lists the allowed forward moves. Error is terminal.
var postTransitions = map[PostStatus][]PostStatus{
	PostStatusGeneratingContent: {PostStatusGenerated, PostStatusPosting, PostStatusError},
	PostStatusPosting:           {PostStatusPosted, PostStatusError},
	PostStatusGenerated:         {PostStatusError},
}

// CanTransition reports whether a post may move from s to next.
func (s PostStatus) CanTransition(next PostStatus) bool {
	for _, allowed := range postTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s PostStatus) IsTerminal() bool {
	return len(postTransitions[s]) == 0
}

// PostResult is the outcome reported by the posting dispatcher.
type PostResult struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Platforms []PlatformResult `json:"platforms,omitempty"`
}

// PlatformResult is the outcome of one social account entry.
type PlatformResult struct {
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}

// Post is one execution record of a template firing. It is created once per
// firing and replaced in place as the pipeline advances.
type Post struct {
	ID              string               `json:"id"`
	BrandID         string               `json:"brandId"`
	TemplateID      string               `json:"templateId"`
	SocialAccounts  []SocialAccountEntry `json:"socialAccounts"`
	Status          PostStatus           `json:"status"`
	ContentResponse *GeneratedContent    `json:"contentResponse,omitempty"`
	ImageURLs       []string             `json:"imageUrls,omitempty"`
	VideoURL        string               `json:"videoUrl,omitempty"`
	PostResult      *PostResult          `json:"postResult,omitempty"`
	Error           string               `json:"error,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// Advance moves the post to next and stamps UpdatedAt. It refuses backward
// moves and any move out of a terminal state.
func (p *Post) Advance(next PostStatus, now time.Time) error {
	if !p.Status.CanTransition(next) {
		return fmt.Errorf("post %s: cannot move from %q to %q", p.ID, p.Status, next)
	}
	p.Status = next
	p.UpdatedAt = now
	return nil
}

// Fail moves the post to the error state with a message. Failing an already
// failed post only refreshes the message.
func (p *Post) Fail(msg string, now time.Time) {
	p.Status = PostStatusError
	p.Error = msg
	p.UpdatedAt = now
}
