// Package export renders request lists as spreadsheets.
package export

import (
	"bytes"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/example/jobdesk/backend/internal/models"
)

// SheetName is the name of the single worksheet in an export.
const SheetName = "Requests"

var requestHeaders = []string{
	"Reference",
	"Status",
	"Requested By",
	"Email",
	"Department",
	"HOD Email",
	"Category",
	"Sub-types",
	"Requested Date",
	"Due Date",
	"Submitted At",
	"Assigned To",
	"Job Purpose",
	"Description",
	"Rejection Reason",
}

// RequestsXLSX writes list, one request per row, in the given order.
func RequestsXLSX(list []models.Request) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("close xlsx file")
		}
	}()

	const sheet = "Sheet1"
	row, err := writeHeader(f, sheet, 0, requestHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write xlsx header")
	}
	if len(list) > 0 {
		if err := applyDataStyle(f, sheet, 1, row+1, len(requestHeaders), row+len(list)); err != nil {
			return nil, errors.Wrap(err, "style xlsx rows")
		}
		for _, r := range list {
			row++
			if err := writeRequestRow(f, sheet, row, r); err != nil {
				return nil, errors.Wrapf(err, "write row for %s", r.Reference)
			}
		}
	}
	if err := f.SetSheetName(sheet, SheetName); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	return f.WriteToBuffer()
}

func writeRequestRow(f *excelize.File, sheet string, row int, r models.Request) error {
	values := []any{
		r.Reference,
		r.Status.BadgeLabel(),
		r.RequestedBy,
		r.Email,
		r.Department,
		r.HODEmail,
		r.Category.Label(),
		strings.Join(r.Subtypes, ", "),
		r.RequestedDate,
		r.DueDate,
		r.SubmittedAt.UTC().Format(time.RFC3339),
		r.Assignee(),
		r.JobPurpose,
		r.DescriptionPlain,
		r.RejectionReason,
	}
	for col, v := range values {
		if err := writeCell(f, sheet, col+1, row, v); err != nil {
			return err
		}
	}
	return nil
}
