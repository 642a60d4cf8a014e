package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// csvDateLayouts are tried in order when parsing statement dates. French bank
// exports use DD/MM/YYYY.
var csvDateLayouts = []string{"02/01/2006", "2006-01-02"}

// statementColumns maps normalized header names to their row index.
type statementColumns struct {
	dateOp         int
	dateVal        int
	label          int
	amount         int
	accountNum     int
	accountLabel   int
	accountBalance int
}

func resolveStatementColumns(header []string) (statementColumns, error) {
	cols := statementColumns{dateOp: -1, dateVal: -1, label: -1, amount: -1, accountNum: -1, accountLabel: -1, accountBalance: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "dateop", "date":
			cols.dateOp = i
		case "dateval":
			cols.dateVal = i
		case "label", "libelle", "libellé":
			cols.label = i
		case "amount", "montant":
			cols.amount = i
		case "accountnum":
			cols.accountNum = i
		case "accountlabel":
			cols.accountLabel = i
		case "accountbalance":
			cols.accountBalance = i
		}
	}
	if cols.dateOp < 0 || cols.label < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("%w: le fichier CSV doit contenir les colonnes date, label et amount", apperrors.ErrValidation)
	}
	return cols, nil
}

func parseStatementDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date invalide %q", apperrors.ErrValidation, raw)
}

// parseStatementAmount accepts French decimal notation with a comma.
func parseStatementAmount(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	raw = strings.ReplaceAll(raw, " ", "")
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: montant invalide %q", apperrors.ErrValidation, raw)
	}
	return value, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseStatementCSV reads a semicolon-delimited bank statement export.
// Imported lines always start uncategorized; any category column present in
// the export is ignored so the categorization pipeline stays the single
// source of category assignments.
func parseStatementCSV(file io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: fichier CSV vide", apperrors.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fichier CSV illisible: %v", apperrors.ErrValidation, err)
	}
	cols, err := resolveStatementColumns(header)
	if err != nil {
		return nil, err
	}

	var txns []models.Transaction
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ligne %d illisible: %v", apperrors.ErrValidation, line, err)
		}
		if isEmptyRow(row) {
			continue
		}

		dateOp, err := parseStatementDate(field(row, cols.dateOp))
		if err != nil {
			return nil, fmt.Errorf("ligne %d: %w", line, err)
		}
		amount, err := parseStatementAmount(field(row, cols.amount))
		if err != nil {
			return nil, fmt.Errorf("ligne %d: %w", line, err)
		}

		txn := models.Transaction{
			DateOp:       dateOp,
			Label:        field(row, cols.label),
			Amount:       amount,
			AccountNum:   field(row, cols.accountNum),
			AccountLabel: field(row, cols.accountLabel),
		}
		if raw := field(row, cols.dateVal); raw != "" {
			dateVal, err := parseStatementDate(raw)
			if err != nil {
				return nil, fmt.Errorf("ligne %d: %w", line, err)
			}
			txn.DateVal = &dateVal
		}
		if raw := field(row, cols.accountBalance); raw != "" {
			balance, err := parseStatementAmount(raw)
			if err != nil {
				return nil, fmt.Errorf("ligne %d: %w", line, err)
			}
			txn.AccountBalance = &balance
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
