package dingsdk

// UserInfo is the contact-level view of a DingTalk user, returned by
// Client.ContactUser and CorpSession.UserByCode.
type UserInfo struct {
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Username  string `json:"nick"`
	OpenID    string `json:"openId,omitempty"`
	UnionID   string `json:"unionId"`
	StateCode string `json:"stateCode"`
	Visitor   bool   `json:"visitor,omitempty"`
}

// Organization is the enterprise authentication record of a corp.
type Organization struct {
	LicenseURL          string `json:"licenseUrl"`
	Name                string `json:"orgName"`
	RegistrationNo      string `json:"registrationNum"`
	UnifiedSocialCredit string `json:"unifiedSocialCredit"`
	OrganizationCode    string `json:"organizationCode"`
	LegalPerson         string `json:"legalPerson"`
	LicenseOrgName      string `json:"licenseOrgName"`
	AuthLevel           int    `json:"authLevel"`
}

// Department is a department membership entry on a user profile.
type Department struct {
	ID     int   `json:"dept_id"`
	SortID int64 `json:"order"`
}

// LeaderInDepartment marks whether the user leads a given department.
type LeaderInDepartment struct {
	ID     int  `json:"dept_id"`
	Leader bool `json:"leader"`
}

// Role is an assigned role on a user profile.
type Role struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	GroupName string `json:"group_name"`
}

// EmployeeUser is the full employee profile from topapi v2/user/get.
type EmployeeUser struct {
	UnionID          string               `json:"unionid"`
	UserID           string               `json:"userid"`
	Username         string               `json:"name"`
	ProfileURL       string               `json:"avatar"`
	StateCode        string               `json:"state_code"`
	ManagerUserID    string               `json:"manager_userid,omitempty"`
	Mobile           string               `json:"mobile"`
	HideMobile       bool                 `json:"hide_mobile"`
	Telephone        string               `json:"telephone"`
	JobNumber        string               `json:"job_number,omitempty"`
	Title            string               `json:"title,omitempty"`
	Email            string               `json:"email,omitempty"`
	WorkPlace        string               `json:"work_place"`
	Remark           string               `json:"remark"`
	ExclusiveAccount bool                 `json:"exclusive_account"`
	OrgEmail         string               `json:"org_email,omitempty"`
	DeptIDList       []int                `json:"dept_id_list"`
	DeptOrderList    []Department         `json:"dept_order_list"`
	Extension        string               `json:"extension,omitempty"`
	HiredDate        uint64               `json:"hired_date,omitempty"`
	Active           bool                 `json:"active"`
	RealAuthed       bool                 `json:"real_authed"`
	Senior           bool                 `json:"senior"`
	Admin            bool                 `json:"admin"`
	Boss             bool                 `json:"boss"`
	LeaderInDept     []LeaderInDepartment `json:"leader_in_dept,omitempty"`
	RoleList         []Role               `json:"role_list,omitempty"`
	UnionEmpExt      map[string]string    `json:"union_emp_ext,omitempty"`
}

// Page is one page of a paginated employee listing. NextCursor is nil on
// the final page.
type Page struct {
	Data       []string `json:"data_list"`
	NextCursor *int64   `json:"next_cursor,omitempty"`
}
