package ics

import (
	"strings"
	"testing"
	"time"
)

var renderNow = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func TestRenderEmptyCalendar(t *testing.T) {
	t.Parallel()

	out := string(Render(Calendar{Name: "My Sport Calendar", RefreshInterval: 5 * time.Minute}, renderNow))

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n") {
		t.Fatalf("missing calendar header: %q", out[:40])
	}
	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Fatal("missing calendar footer")
	}
	for _, want := range []string{
		"VERSION:2.0\r\n",
		"METHOD:PUBLISH\r\n",
		"X-WR-CALNAME:My Sport Calendar\r\n",
		"REFRESH-INTERVAL;VALUE=DURATION:PT5M\r\n",
		"X-PUBLISHED-TTL:PT5M\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatal("empty calendar must not contain events")
	}
}

func TestRenderEvent(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	out := string(Render(Calendar{
		Name: "Feed",
		Events: []Event{
			{
				UID:       "football-100@sportcal",
				Summary:   "Liverpool vs Manchester City",
				Location:  "Anfield",
				Start:     start,
				End:       start.Add(105 * time.Minute),
				Confirmed: true,
			},
		},
	}, renderNow))

	for _, want := range []string{
		"BEGIN:VEVENT\r\n",
		"UID:football-100@sportcal\r\n",
		"DTSTAMP:20260115T093000Z\r\n",
		"DTSTART:20260110T180000Z\r\n",
		"DTEND:20260110T194500Z\r\n",
		"SUMMARY:Liverpool vs Manchester City\r\n",
		"LOCATION:Anfield\r\n",
		"STATUS:CONFIRMED\r\n",
		"END:VEVENT\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderTentativeWhenNotConfirmed(t *testing.T) {
	t.Parallel()

	out := string(Render(Calendar{
		Events: []Event{{UID: "u", Summary: "s", Start: renderNow}},
	}, renderNow))
	if !strings.Contains(out, "STATUS:TENTATIVE\r\n") {
		t.Fatal("unconfirmed event must be TENTATIVE")
	}
}

func TestRenderEscapesText(t *testing.T) {
	t.Parallel()

	out := string(Render(Calendar{
		Events: []Event{{
			UID:         "u",
			Summary:     "Derby; Home, Away",
			Description: "Line one\nLine two\\end",
			Start:       renderNow,
		}},
	}, renderNow))

	if !strings.Contains(out, `SUMMARY:Derby\; Home\, Away`) {
		t.Fatalf("summary not escaped:\n%s", out)
	}
	if !strings.Contains(out, `DESCRIPTION:Line one\nLine two\\end`) {
		t.Fatalf("description not escaped:\n%s", out)
	}
}

func TestRenderFoldsLongLines(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("abcdefghij", 20)
	out := string(Render(Calendar{
		Events: []Event{{UID: "u", Summary: long, Start: renderNow}},
	}, renderNow))

	for _, line := range strings.Split(out, "\r\n") {
		if len(line) > 75 {
			t.Fatalf("line exceeds 75 octets: %q", line)
		}
	}

	// Unfolding restores the original text.
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	if !strings.Contains(unfolded, "SUMMARY:"+long) {
		t.Fatal("folded summary does not unfold to the original")
	}
}
