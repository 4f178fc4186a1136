package wcifexport

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	wcifservice "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/application"
	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
	"github.com/xuri/excelize/v2"
)

const (
	ScheduleSheet    = "Schedule"
	AssignmentsSheet = "Assignments"

	localLayout = "2006-01-02 15:04"
)

var (
	scheduleHeader = []any{
		"Venue", "Room", "Activity ID", "Parent ID", "Name", "Activity Code",
		"Start (UTC)", "End (UTC)", "Local Start", "Local End", "Minutes",
	}
	assignmentsHeader = []any{
		"Registrant ID", "Name", "WCA ID", "Activity ID", "Activity", "Assignment", "Station",
	}
)

// XLSXExporter renders a competition schedule and its staff/competitor
// assignments as a two-sheet workbook.
type XLSXExporter struct {
	logger *slog.Logger
}

func NewXLSXExporter(logger *slog.Logger) *XLSXExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXExporter{logger: logger}
}

// Workbook builds the workbook in memory. The caller owns the returned file
// and must Close it.
func (e *XLSXExporter) Workbook(c *wcifservice.Container) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AssignmentsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet %q: %w", AssignmentsSheet, err)
	}

	scheduleRows := scheduleRows(c)
	assignmentRows := assignmentRows(c)

	if err := writeSheet(f, ScheduleSheet, scheduleHeader, scheduleRows); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, AssignmentsSheet, assignmentsHeader, assignmentRows); err != nil {
		f.Close()
		return nil, err
	}

	e.logger.Debug("built workbook",
		slog.String("competition_id", c.Wcif().ID),
		slog.Int("activities", len(scheduleRows)),
		slog.Int("assignments", len(assignmentRows)),
	)
	return f, nil
}

// Write streams the workbook to w.
func (e *XLSXExporter) Write(w io.Writer, c *wcifservice.Container) error {
	f, err := e.Workbook(c)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the workbook at path.
func (e *XLSXExporter) WriteFile(path string, c *wcifservice.Container) error {
	f, err := e.Workbook(c)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze %s header: %w", sheet, err)
	}
	return nil
}

// scheduleRows emits one row per activity, parents before their groups.
func scheduleRows(c *wcifservice.Container) [][]any {
	var rows [][]any
	for _, venue := range c.Wcif().Schedule.Venues {
		loc := venueLocation(venue.Timezone)
		for _, room := range venue.Rooms {
			var walk func(acts []wcifdomain.Activity, parent string)
			walk = func(acts []wcifdomain.Activity, parent string) {
				for _, a := range acts {
					rows = append(rows, []any{
						venue.Name,
						room.Name,
						a.ID,
						parent,
						a.Name,
						a.ActivityCode,
						a.StartTime.String(),
						a.EndTime.String(),
						a.StartTime.In(loc).Format(localLayout),
						a.EndTime.In(loc).Format(localLayout),
						int64(a.Duration() / time.Minute),
					})
					walk(a.ChildActivities, strconv.FormatUint(a.ID, 10))
				}
			}
			walk(room.Activities, "")
		}
	}
	return rows
}

func assignmentRows(c *wcifservice.Container) [][]any {
	names := make(map[uint64]string)
	for a := range c.Activities() {
		names[a.ID] = a.Name
	}

	var rows [][]any
	for p := range c.Persons() {
		registrant := ""
		if p.RegistrantID != nil {
			registrant = strconv.FormatUint(*p.RegistrantID, 10)
		}
		wcaID := ""
		if p.WcaID != nil {
			wcaID = p.WcaID.String()
		}
		for _, as := range p.Assignments {
			station := ""
			if as.StationNumber != nil {
				station = strconv.FormatUint(*as.StationNumber, 10)
			}
			rows = append(rows, []any{
				registrant,
				p.Name,
				wcaID,
				as.ActivityID,
				names[as.ActivityID],
				string(as.AssignmentCode),
				station,
			})
		}
	}
	return rows
}

// venueLocation falls back to UTC for zones the host does not know.
func venueLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
