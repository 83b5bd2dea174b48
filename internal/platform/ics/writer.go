// Package ics renders RFC 5545 iCalendar documents. Output uses CRLF
// line endings, folds content lines at 75 octets, and escapes text
// values per RFC 5545, which is the minimum calendar clients require
// to parse a subscription feed.
package ics

import (
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"
)

const (
	prodID       = "-//SportCal//sport-calendar//EN"
	timeLayout   = "20060102T150405Z"
	foldAtOctets = 75
)

type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	// Confirmed maps to STATUS:CONFIRMED; everything else is TENTATIVE.
	Confirmed bool
}

type Calendar struct {
	Name string
	// RefreshInterval is advertised via REFRESH-INTERVAL and
	// X-PUBLISHED-TTL so subscribing clients poll frequently.
	RefreshInterval time.Duration
	Events          []Event
}

// Render produces the calendar document. now stamps every event's
// DTSTAMP. A calendar with zero events is still a valid document.
func Render(cal Calendar, now time.Time) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writeLine(buf, "BEGIN:VCALENDAR")
	writeLine(buf, "VERSION:2.0")
	writeLine(buf, "PRODID:"+prodID)
	writeLine(buf, "CALSCALE:GREGORIAN")
	writeLine(buf, "METHOD:PUBLISH")
	if cal.Name != "" {
		writeLine(buf, "X-WR-CALNAME:"+escapeText(cal.Name))
		writeLine(buf, "NAME:"+escapeText(cal.Name))
	}
	if cal.RefreshInterval > 0 {
		duration := formatDuration(cal.RefreshInterval)
		writeLine(buf, "REFRESH-INTERVAL;VALUE=DURATION:"+duration)
		writeLine(buf, "X-PUBLISHED-TTL:"+duration)
	}

	stamp := now.UTC().Format(timeLayout)
	for _, event := range cal.Events {
		writeLine(buf, "BEGIN:VEVENT")
		writeLine(buf, "UID:"+escapeText(event.UID))
		writeLine(buf, "DTSTAMP:"+stamp)
		writeLine(buf, "DTSTART:"+event.Start.UTC().Format(timeLayout))
		if !event.End.IsZero() {
			writeLine(buf, "DTEND:"+event.End.UTC().Format(timeLayout))
		}
		writeLine(buf, "SUMMARY:"+escapeText(event.Summary))
		if event.Description != "" {
			writeLine(buf, "DESCRIPTION:"+escapeText(event.Description))
		}
		if event.Location != "" {
			writeLine(buf, "LOCATION:"+escapeText(event.Location))
		}
		if event.Confirmed {
			writeLine(buf, "STATUS:CONFIRMED")
		} else {
			writeLine(buf, "STATUS:TENTATIVE")
		}
		writeLine(buf, "END:VEVENT")
	}
	writeLine(buf, "END:VCALENDAR")

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out
}

// writeLine appends one content line, folding anything longer than 75
// octets onto continuation lines that begin with a single space.
func writeLine(buf *bytebufferpool.ByteBuffer, line string) {
	remaining := line
	first := true
	for {
		limit := foldAtOctets
		if !first {
			// The leading space counts against the octet budget.
			limit = foldAtOctets - 1
		}
		if len(remaining) <= limit {
			break
		}

		cut := limit
		// Never split a UTF-8 sequence mid-rune.
		for cut > 0 && remaining[cut]&0xC0 == 0x80 {
			cut--
		}

		if !first {
			_, _ = buf.WriteString(" ")
		}
		_, _ = buf.WriteString(remaining[:cut])
		_, _ = buf.WriteString("\r\n")
		remaining = remaining[cut:]
		first = false
	}

	if !first {
		_, _ = buf.WriteString(" ")
	}
	_, _ = buf.WriteString(remaining)
	_, _ = buf.WriteString("\r\n")
}

func escapeText(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// Bare CR is dropped; CRLF pairs reduce to the escaped newline.
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return "PT" + strconv.Itoa(minutes) + "M"
}
