package permission

type Tab string

const (
	TabDashboard            Tab = "dashboard"
	TabReports              Tab = "reports"
	TabInternalReports      Tab = "internal-reports"
	TabSubmitInternalReport Tab = "submit-internal-report"
	TabViewAnnouncements    Tab = "view-announcements"
	TabWanted               Tab = "wanted"
	TabVehicles             Tab = "vehicles"
	TabAnnouncements        Tab = "announcements"
	TabPersonnel            Tab = "personnel"
	TabRecords              Tab = "records"
	TabUsers                Tab = "users"
)

type tabRule struct {
	tab     Tab
	visible func(Set) bool
}

var tabRules = []tabRule{
	{TabDashboard, func(Set) bool { return true }},
	{TabReports, func(s Set) bool { return s.Allows(ManageReports) }},
	{TabInternalReports, func(s Set) bool { return s.AllowsAny(ManageReports, ManageInternalReports) }},
	{TabSubmitInternalReport, func(s Set) bool { return s.AllowsAny(SubmitInternalReport, ViewAnnouncements) }},
	{TabViewAnnouncements, func(s Set) bool { return s.Allows(ViewAnnouncements) && !s.Allows(ManageAnnouncements) }},
	{TabWanted, func(s Set) bool { return s.Allows(ManageWanted) }},
	{TabVehicles, func(s Set) bool { return s.Allows(ManageWanted) }},
	{TabAnnouncements, func(s Set) bool { return s.Allows(ManageAnnouncements) }},
	{TabPersonnel, func(s Set) bool { return s.Allows(ManagePersonnel) }},
	{TabRecords, func(s Set) bool { return s.Allows(ManagePersonnel) }},
	{TabUsers, func(s Set) bool { return s.Allows(ManageUsers) }},
}

func (s Set) VisibleTabs() []Tab {
	tabs := make([]Tab, 0, len(tabRules))
	for _, rule := range tabRules {
		if rule.visible(s) {
			tabs = append(tabs, rule.tab)
		}
	}
	return tabs
}

// Capabilities is the advisory view of a permission set handed to clients.
type Capabilities struct {
	CanPerformActions bool  `json:"canPerformActions"`
	Tabs              []Tab `json:"tabs"`
}

func (s Set) Capabilities() Capabilities {
	return Capabilities{
		CanPerformActions: s.CanPerformActions(),
		Tabs:              s.VisibleTabs(),
	}
}
