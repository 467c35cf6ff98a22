package tables

import (
	"net/url"

	"labdesk/internal/grid"
)

// Action is one entry of a row's action menu. Disabled entries stand for
// features the dashboard does not offer (printing, deletion, analytics,
// new bookings).
type Action struct {
	Label       string
	Href        string
	Disabled    bool
	Destructive bool
	Separator   bool
}

func detailHref(kind, id, mode string) string {
	href := "/" + kind + "/" + url.PathEscape(id)
	if mode != "" {
		href += "?mode=" + mode
	}
	return href
}

func BookingActions(id string) []Action {
	return []Action{
		{Label: "Edit Booking", Href: detailHref("bookings", id, "edit")},
		{Label: "Add Payment", Href: detailHref("bookings", id, "payment")},
		{Label: "View Details", Href: detailHref("bookings", id, "")},
		{Label: "Print Invoice", Disabled: true},
		{Label: "Delete Booking", Disabled: true, Destructive: true, Separator: true},
	}
}

func PatientActions(id string) []Action {
	return []Action{
		{Label: "View Profile", Href: detailHref("patients", id, "")},
		{Label: "Edit Patient", Href: detailHref("patients", id, "edit")},
		{Label: "Test History", Href: detailHref("patients", id, "history")},
		{Label: "New Booking", Disabled: true},
		{Label: "Print Reports", Disabled: true},
		{Label: "Delete Patient", Disabled: true, Destructive: true, Separator: true},
	}
}

func TestActions(id string) []Action {
	return []Action{
		{Label: "Test Details", Href: detailHref("tests", id, "")},
		{Label: "Edit Test", Href: detailHref("tests", id, "edit")},
		{Label: "View Analytics", Disabled: true},
		{Label: "Delete Test", Disabled: true, Destructive: true, Separator: true},
	}
}

func actionsCell(actions []Action) grid.Cell {
	return cell("actions", "", actions)
}
