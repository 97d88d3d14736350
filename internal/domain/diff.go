package domain

import (
	"strconv"
	"time"
)

// Audited field names, as stored in audit_log.field_changed.
const (
	FieldTourDate              = "tour_date"
	FieldStartTime             = "start_time"
	FieldPaxCount              = "pax_count"
	FieldStatus                = "status"
	FieldTotalAmount           = "total_amount"
	FieldBoatID                = "boat_id"
	FieldDriverID              = "driver_id"
	FieldGuideID               = "guide_id"
	FieldNotes                 = "notes"
	FieldEmergencyContactName  = "emergency_contact_name"
	FieldEmergencyContactPhone = "emergency_contact_phone"
)

// AuditedFields is the fixed allow-list of fields diffed on update, in the
// order their entries are written.
var AuditedFields = []string{
	FieldTourDate,
	FieldStartTime,
	FieldPaxCount,
	FieldStatus,
	FieldTotalAmount,
	FieldBoatID,
	FieldDriverID,
	FieldGuideID,
	FieldNotes,
	FieldEmergencyContactName,
	FieldEmergencyContactPhone,
}

// FieldChange is one audited field whose string form differs.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// Action is the audit action recorded for this change.
func (c FieldChange) Action() AuditAction {
	if c.Field == FieldStatus {
		return ActionStatusChanged
	}
	return ActionUpdated
}

// Diff compares the audited fields present in p against current. Values are
// normalized to strings first, with null treated as the empty string, so a
// patch that re-submits unchanged values yields no changes.
func Diff(current Reservation, p ReservationPatch) []FieldChange {
	var out []FieldChange
	add := func(field, oldV, newV string) {
		if oldV != newV {
			out = append(out, FieldChange{Field: field, OldValue: oldV, NewValue: newV})
		}
	}
	if p.TourDate != nil {
		add(FieldTourDate, formatDate(current.TourDate), formatDate(DateOnly(*p.TourDate)))
	}
	if p.StartTime != nil {
		add(FieldStartTime, current.StartTime, *p.StartTime)
	}
	if p.PaxCount != nil {
		add(FieldPaxCount, strconv.Itoa(current.PaxCount), strconv.Itoa(*p.PaxCount))
	}
	if p.Status != nil {
		add(FieldStatus, string(current.Status), string(*p.Status))
	}
	if p.TotalAmount != nil {
		add(FieldTotalAmount, FormatAmount(current.TotalAmount), FormatAmount(*p.TotalAmount))
	}
	if p.BoatID != nil {
		add(FieldBoatID, formatID(current.BoatID), formatID(p.BoatID.Ptr()))
	}
	if p.DriverID != nil {
		add(FieldDriverID, formatID(current.DriverID), formatID(p.DriverID.Ptr()))
	}
	if p.GuideID != nil {
		add(FieldGuideID, formatID(current.GuideID), formatID(p.GuideID.Ptr()))
	}
	if p.Notes != nil {
		add(FieldNotes, current.Notes, *p.Notes)
	}
	if p.EmergencyContactName != nil {
		add(FieldEmergencyContactName, current.EmergencyContactName, *p.EmergencyContactName)
	}
	if p.EmergencyContactPhone != nil {
		add(FieldEmergencyContactPhone, current.EmergencyContactPhone, *p.EmergencyContactPhone)
	}
	return out
}

// FormatAmount renders a currency value without trailing zeros, so 150 and
// 150.00 compare equal.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
