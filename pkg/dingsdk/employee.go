package dingsdk

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// employeePageSize matches the platform maximum for employee listings.
const employeePageSize = 50

// EmployeeCount returns the number of employees in the corp. With
// onlyActive set, employees who have not activated DingTalk are excluded.
func (s *CorpSession) EmployeeCount(ctx context.Context, onlyActive bool) (int, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return 0, err
	}

	var out struct {
		topEnvelope
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	body := map[string]bool{"only_active": onlyActive}
	if err := s.client.postTop(ctx, "/topapi/user/count", token, body, &out); err != nil {
		return 0, err
	}
	return out.Result.Count, nil
}

// OnJobEmployees lists current employees. statusList filters by hiring
// status (e.g. "2,3,5,-1" for all on-job states); offset pages from 0 in
// steps of the returned cursor.
func (s *CorpSession) OnJobEmployees(ctx context.Context, statusList string, offset int) (*Page, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		topEnvelope
		Result Page `json:"result"`
	}
	body := map[string]string{
		"status_list": statusList,
		"offset":      strconv.Itoa(offset),
		"size":        strconv.Itoa(employeePageSize),
	}
	if err := s.client.postTop(ctx, "/topapi/smartwork/hrm/employee/queryonjob", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Result, nil
}

// OffJobEmployees lists dismissed employees, paged by the cursor from the
// previous call (0 for the first page).
func (s *CorpSession) OffJobEmployees(ctx context.Context, nextToken int64) (*Page, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	c := s.client
	rawURL := fmt.Sprintf("%s/v1.0/hrm/employees/dismissions?nextToken=%d&maxResults=%d",
		c.apiBaseURL, nextToken, employeePageSize)
	resp, err := c.roundTrip(ctx, http.MethodGet, rawURL, token, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		NextCursor int64    `json:"nextToken"`
		HasMore    bool     `json:"hasMore"`
		Data       []string `json:"userIdList"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}

	page := &Page{Data: out.Data}
	if out.HasMore {
		cursor := out.NextCursor
		page.NextCursor = &cursor
	}
	return page, nil
}

// Employee fetches the full profile of one employee by corp-local user id.
func (s *CorpSession) Employee(ctx context.Context, userID string) (*EmployeeUser, error) {
	return s.employeeProfile(ctx, userID)
}
