package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
)

// ExportService renders collections as CSV for the supervisory committee.
type ExportService struct {
	Store store.Store
}

func NewExportService(s store.Store) *ExportService {
	return &ExportService{Store: s}
}

// Export returns the CSV bytes for a supported export type.
func (s *ExportService) Export(ctx context.Context, exportType string) ([]byte, error) {
	var rows [][]string

	switch exportType {
	case "members":
		members, _, err := store.Load[models.Member](ctx, s.Store, CollMembers)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"name", "email", "role"})
		for _, m := range members {
			rows = append(rows, []string{m.Name, m.Email, m.Role})
		}

	case "loans":
		loans, _, err := store.Load[models.LoanRequest](ctx, s.Store, CollLoans)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"member", "amount", "purpose", "status", "date"})
		for _, l := range loans {
			rows = append(rows, []string{l.Member, formatAmount(l.Amount), l.Purpose, l.Status, l.Date})
		}

	case "transactions":
		txns, _, err := store.Load[models.Transaction](ctx, s.Store, CollTransactions)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"title", "date", "amount", "type", "member"})
		for _, t := range txns {
			rows = append(rows, []string{t.Title, t.Date, formatAmount(t.Amount), t.Type, t.Member})
		}

	case "welfare":
		claims, _, err := store.Load[models.WelfareClaim](ctx, s.Store, CollWelfare)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"type", "amount", "member", "status", "date"})
		for _, c := range claims {
			rows = append(rows, []string{c.Type, formatAmount(c.Amount), c.Member, c.Status, c.Date})
		}

	default:
		return nil, fmt.Errorf("%w: unsupported export type %s", ErrInvalidInput, exportType)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
