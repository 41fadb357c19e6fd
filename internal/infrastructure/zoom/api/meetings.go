// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// reportPageSize is the max page size the Zoom reports API allows.
const reportPageSize = 300

// PastMeeting represents the response from GET /past_meetings/{meetingUID}
type PastMeeting struct {
	UUID      string    `json:"uuid"`
	ID        int64     `json:"id"`
	Topic     string    `json:"topic"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int       `json:"duration"` // minutes
}

// ReportParticipant is one join/leave entry from the participant report.
// A participant that joined several times appears once per join.
type ReportParticipant struct {
	ID        string     `json:"id"`
	UserEmail string     `json:"user_email"`
	Name      string     `json:"name"`
	JoinTime  time.Time  `json:"join_time"`
	LeaveTime *time.Time `json:"leave_time,omitempty"`
	Duration  int        `json:"duration"` // seconds, as reported by Zoom
}

// reportParticipantsResponse is the paged response from the reports API.
type reportParticipantsResponse struct {
	NextPageToken string              `json:"next_page_token"`
	PageSize      int                 `json:"page_size"`
	TotalRecords  int                 `json:"total_records"`
	Participants  []ReportParticipant `json:"participants"`
}

// encodeMeetingUID makes a meeting UUID safe for use in a URL path.
// Zoom requires double encoding when the UUID starts with '/' or
// contains '//', which happens for some recurring meeting instances.
func encodeMeetingUID(meetingUID string) string {
	encoded := url.PathEscape(meetingUID)
	if strings.HasPrefix(meetingUID, "/") || strings.Contains(meetingUID, "//") {
		encoded = url.PathEscape(encoded)
	}
	return encoded
}

// GetPastMeeting retrieves the details of a finished meeting instance.
func (c *Client) GetPastMeeting(ctx context.Context, meetingUID string) (*PastMeeting, error) {
	if meetingUID == "" {
		return nil, fmt.Errorf("meeting UID is required")
	}

	var meeting PastMeeting
	path := fmt.Sprintf("/past_meetings/%s", encodeMeetingUID(meetingUID))
	if err := c.getJSON(ctx, path, &meeting); err != nil {
		return nil, fmt.Errorf("failed to get past meeting: %w", err)
	}

	return &meeting, nil
}

// GetMeetingParticipants retrieves the full participant report of a finished
// meeting, following pagination until all pages are consumed.
func (c *Client) GetMeetingParticipants(ctx context.Context, meetingUID string) ([]ReportParticipant, error) {
	if meetingUID == "" {
		return nil, fmt.Errorf("meeting UID is required")
	}

	var participants []ReportParticipant
	pageToken := ""

	for {
		path := fmt.Sprintf("/report/meetings/%s/participants?page_size=%d",
			encodeMeetingUID(meetingUID), reportPageSize)
		if pageToken != "" {
			path += "&next_page_token=" + url.QueryEscape(pageToken)
		}

		var page reportParticipantsResponse
		if err := c.getJSON(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("failed to get meeting participants: %w", err)
		}

		participants = append(participants, page.Participants...)

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return participants, nil
}
