package sheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"cloudlab-go/internal/types"
)

const (
	InstancesSheet = "Instances"
	BucketsSheet   = "Buckets"
)

// WriteInventory saves running instances and buckets as two sheets of one workbook.
func WriteInventory(path string, instances []types.Instance, buckets []types.Bucket) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", InstancesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rows := [][]any{{"Instance ID", "Name", "Type", "State", "Availability Zone", "Launch Time"}}
	for _, in := range instances {
		rows = append(rows, []any{in.ID, in.Name, in.Type, in.State, in.AvailabilityZone, formatTime(in.LaunchTime)})
	}
	if err := writeRows(f, InstancesSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(BucketsSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	rows = [][]any{{"Bucket", "Created"}}
	for _, b := range buckets {
		rows = append(rows, []any{b.Name, formatTime(b.CreatedAt)})
	}
	if err := writeRows(f, BucketsSheet, rows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
