package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testXER = "ERMHDR\t19.12\n" +
	"%T\tPROJWBS\n" +
	"%F\twbs_id\twbs_name\n" +
	"%R\t100\tFoundations & Structure\n" +
	"%R\t200\tGeneral Requirements\n" +
	"%T\tTASK\n" +
	"%F\ttask_id\ttask_code\ttask_name\twbs_id\ttask_type\tstatus_code\tearly_start_date\tearly_end_date\n" +
	"%R\t1\tA100\tPour footings Grid 1-5\t100\tTT_Task\tTK_Active\t2026-02-03 08:00\t2026-02-10 16:00\n" +
	"%R\t2\tA110\tFoundation complete milestone\t100\tTT_Mile\tTK_NotStart\t2026-02-05 08:00\t2026-02-05 08:00\n" +
	"%R\t3\tA120\tSubmittal review\t200\tTT_Task\tTK_Active\t2026-02-02 08:00\t2026-02-06 16:00\n" +
	"%R\t4\tA130\tDemo old fencing\t100\tTT_Task\tTK_Complete\t2026-01-26 08:00\t2026-01-30 16:00\n" +
	"%R\t5\tA140\tForm stem walls\t100\tTT_Task\tTK_NotStart\t2026-02-09 08:00\t2026-02-13 16:00\n"

func writeTestXER(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.xer")
	if err := os.WriteFile(path, []byte(testXER), 0644); err != nil {
		t.Fatalf("write xer: %v", err)
	}
	return path
}

func TestParseMasterSchedule(t *testing.T) {
	activities := ParseMasterSchedule(writeTestXER(t), nil)

	// Milestone rows and non-construction WBS rows are dropped.
	if len(activities) != 3 {
		t.Fatalf("expected 3 activities, got %d: %+v", len(activities), activities)
	}
	for _, a := range activities {
		if a.WBSCategory != "Foundations & Structure" {
			t.Fatalf("unexpected WBS category %q", a.WBSCategory)
		}
	}
	first := activities[0]
	if first.TaskCode != "A100" || first.Status != "Active" {
		t.Fatalf("first activity = %+v", first)
	}
	if got := first.EarlyStart.Format("2006-01-02"); got != "2026-02-03" {
		t.Fatalf("early start = %s", got)
	}
}

func TestParseMasterScheduleMissingFile(t *testing.T) {
	if got := ParseMasterSchedule(filepath.Join(t.TempDir(), "absent.xer"), nil); got != nil {
		t.Fatalf("expected nil for missing file, got %v", got)
	}
}

func TestActivitiesForWeek(t *testing.T) {
	activities := ParseMasterSchedule(writeTestXER(t), nil)

	// A100 spans both weeks; the completed demo never appears.
	week1 := ActivitiesForWeek(activities, mustDate(t, "2026-02-02"), mustDate(t, "2026-02-06"))
	if len(week1) != 1 || week1[0].TaskCode != "A100" {
		t.Fatalf("week1 = %+v", week1)
	}

	week2 := ActivitiesForWeek(activities, mustDate(t, "2026-02-09"), mustDate(t, "2026-02-13"))
	if len(week2) != 2 {
		t.Fatalf("week2 = %+v", week2)
	}
	if week2[0].TaskCode != "A100" || week2[1].TaskCode != "A140" {
		t.Fatalf("week2 order = %s, %s", week2[0].TaskCode, week2[1].TaskCode)
	}

	empty := ActivitiesForWeek(activities, mustDate(t, "2026-06-01"), mustDate(t, "2026-06-05"))
	if len(empty) != 0 {
		t.Fatalf("expected no activities, got %+v", empty)
	}
}

func TestMasterScheduleContext(t *testing.T) {
	ctx := MasterScheduleContext(writeTestXER(t), mustDate(t, "2026-02-09"), 3, nil)

	if !strings.HasPrefix(ctx, "MASTER SCHEDULE REFERENCE (from Primavera P6):") {
		t.Fatalf("missing header:\n%s", ctx)
	}
	if !strings.Contains(ctx, "Week 1 (02/09–02/13)") {
		t.Fatalf("missing week 1 label:\n%s", ctx)
	}
	if !strings.Contains(ctx, "- Form stem walls [02/09–02/13] (Foundations & Structure)") {
		t.Fatalf("missing activity line:\n%s", ctx)
	}
	if !strings.Contains(ctx, "Week 3 (02/23–02/27): No activities scheduled") {
		t.Fatalf("missing empty-week line:\n%s", ctx)
	}
}

func TestMasterScheduleContextEmptyForMissingFile(t *testing.T) {
	ctx := MasterScheduleContext(filepath.Join(t.TempDir(), "absent.xer"), mustDate(t, "2026-02-09"), 3, nil)
	if ctx != "" {
		t.Fatalf("expected empty context, got %q", ctx)
	}
}
