package sheets

import (
	"fmt"
	"net/url"
	"strings"
)

// SpreadsheetID extracts the document id from a Google Sheets link
// (".../spreadsheets/d/<id>/edit"). A bare id is returned as is.
func SpreadsheetID(sheetURL string) (string, error) {
	raw := strings.TrimSpace(sheetURL)
	if raw == "" {
		return "", fmt.Errorf("sheet url is empty")
	}
	if !strings.Contains(raw, "/") {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse sheet url: %w", err)
	}
	parts := strings.Split(u.Path, "/")
	for i, p := range parts {
		if p == "d" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("sheet url has no /d/<id> segment: %s", raw)
}

// SheetGID returns the gid from the query, then the fragment, defaulting to "0".
func SheetGID(sheetURL string) string {
	u, err := url.Parse(strings.TrimSpace(sheetURL))
	if err != nil {
		return "0"
	}
	if gid := strings.TrimSpace(u.Query().Get("gid")); gid != "" {
		return gid
	}
	if frag, err := url.ParseQuery(u.Fragment); err == nil {
		if gid := strings.TrimSpace(frag.Get("gid")); gid != "" {
			return gid
		}
	}
	return "0"
}

// CSVExportURL converts a share/edit link into the CSV export link of the same tab.
func CSVExportURL(sheetURL string) (string, error) {
	id, err := SpreadsheetID(sheetURL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s",
		url.PathEscape(id), url.QueryEscape(SheetGID(sheetURL))), nil
}
