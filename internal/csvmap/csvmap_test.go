package csvmap

import (
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"raffle/internal/models"
)

func TestParse(t *testing.T) {
	t.Run("header mapping over simple input", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "Name",
			TicketColumn: "Ticket",
			HasHeaderRow: true,
			Delimiter:    ",",
		}
		rows, warnings, err := Parse("Name,Ticket\nAlice,100\nBob,101\n", mapping)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(warnings) != 0 {
			t.Errorf("Expected no warnings, but got %v", warnings)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, but got %d", len(rows))
		}
		if rows[0].Name != "Alice" || rows[0].Ticket != "100" {
			t.Errorf("Unexpected first row: %+v", rows[0])
		}
		if rows[1].Name != "Bob" || rows[1].Ticket != "101" {
			t.Errorf("Unexpected second row: %+v", rows[1])
		}
	})

	t.Run("positional mapping without header", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "2",
			TicketColumn: "1",
			HasHeaderRow: false,
			Delimiter:    ";",
		}
		rows, _, err := Parse("100;Alice\n101;Bob\n", mapping)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, but got %d", len(rows))
		}
		if rows[0].Name != "Alice" || rows[0].Ticket != "100" {
			t.Errorf("Unexpected first row: %+v", rows[0])
		}
	})

	t.Run("email and extra columns", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "Name",
			TicketColumn: "Ticket",
			EmailColumn:  "Email",
			ExtraColumns: map[string]string{"team": "Team"},
			HasHeaderRow: true,
			Delimiter:    ",",
		}
		rows, _, err := Parse("Name,Ticket,Email,Team\nAlice,100,a@example.com,Red\n", mapping)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if rows[0].Email != "a@example.com" {
			t.Errorf("Expected email to be mapped, but got %q", rows[0].Email)
		}
		if rows[0].Extra["team"] != "Red" {
			t.Errorf("Expected extra column to be mapped, but got %+v", rows[0].Extra)
		}
	})

	t.Run("unresolved column degrades to empty string with warning", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "Name",
			TicketColumn: "Nope",
			HasHeaderRow: true,
			Delimiter:    ",",
		}
		rows, warnings, err := Parse("Name,Ticket\nAlice,100\nBob,101\n", mapping)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, but got %d", len(rows))
		}
		for _, row := range rows {
			if row.Ticket != "" {
				t.Errorf("Expected empty ticket for unresolved column, but got %q", row.Ticket)
			}
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "Nope") {
			t.Errorf("Expected one warning naming the unresolved column, but got %v", warnings)
		}
	})

	t.Run("quoted fields with embedded delimiter", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "Name",
			TicketColumn: "Ticket",
			HasHeaderRow: true,
			Delimiter:    ",",
		}
		rows, _, err := Parse("Name,Ticket\n\"Doe, Jane\",100\n", mapping)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if rows[0].Name != "Doe, Jane" {
			t.Errorf("Expected quoted name to survive, but got %q", rows[0].Name)
		}
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "Name",
			TicketColumn: "Ticket",
			HasHeaderRow: true,
			Delimiter:    ",",
		}
		rows, _, err := Parse("Name,Ticket\nAlice,100\n\nBob,101\n", mapping)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected blank line to be skipped, but got %d rows", len(rows))
		}
	})

	t.Run("rows with empty fields are not dropped", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "Name",
			TicketColumn: "Ticket",
			HasHeaderRow: true,
			Delimiter:    ",",
		}
		rows, _, err := Parse("Name,Ticket\n,100\nBob,\n", mapping)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, but got %d", len(rows))
		}
	})

	t.Run("unsupported delimiter is rejected", func(t *testing.T) {
		mapping := models.ColumnMapping{
			NameColumn:   "Name",
			TicketColumn: "Ticket",
			HasHeaderRow: true,
			Delimiter:    "#",
		}
		if _, _, err := Parse("Name#Ticket\nAlice#100\n", mapping); err == nil {
			t.Fatal("Expected an error for unsupported delimiter, but got nil")
		}
	})
}

// TestParseRoundTrip serializes a roster with encoding/csv and re-parses it
// with the matching mapping, expecting the same name/ticket pairs back in
// the same order.
func TestParseRoundTrip(t *testing.T) {
	for _, delim := range []string{",", ";", "|", "\t"} {
		t.Run(fmt.Sprintf("delimiter %q", delim), func(t *testing.T) {
			pairs := [][2]string{
				{"Alice", "100"},
				{"Doe, Jane", "101"},
				{"Bob \"The Builder\"", "102"},
				{"Carol", "103"},
			}

			var sb strings.Builder
			w := csv.NewWriter(&sb)
			w.Comma, _ = DelimiterRune(delim)
			_ = w.Write([]string{"Name", "Ticket"})
			for _, p := range pairs {
				_ = w.Write([]string{p[0], p[1]})
			}
			w.Flush()

			mapping := models.ColumnMapping{
				NameColumn:   "Name",
				TicketColumn: "Ticket",
				HasHeaderRow: true,
				Delimiter:    delim,
			}
			rows, warnings, err := Parse(sb.String(), mapping)
			if err != nil {
				t.Fatalf("Expected no error, but got %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("Expected no warnings, but got %v", warnings)
			}
			if len(rows) != len(pairs) {
				t.Fatalf("Expected %d rows, but got %d", len(pairs), len(rows))
			}
			for i, p := range pairs {
				if rows[i].Name != p[0] || rows[i].Ticket != p[1] {
					t.Errorf("Row %d: expected %v, but got {%s %s}", i, p, rows[i].Name, rows[i].Ticket)
				}
			}
		})
	}
}

func TestHeaders(t *testing.T) {
	t.Run("returns trimmed first row", func(t *testing.T) {
		headers, err := Headers("Name , Ticket,Email\nAlice,100,a@example.com\n", ",")
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		want := []string{"Name", "Ticket", "Email"}
		if len(headers) != len(want) {
			t.Fatalf("Expected %d headers, but got %d", len(want), len(headers))
		}
		for i := range want {
			if headers[i] != want[i] {
				t.Errorf("Header %d: expected %q, but got %q", i, want[i], headers[i])
			}
		}
	})

	t.Run("empty input yields no headers", func(t *testing.T) {
		headers, err := Headers("", ",")
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(headers) != 0 {
			t.Errorf("Expected no headers, but got %v", headers)
		}
	})
}
