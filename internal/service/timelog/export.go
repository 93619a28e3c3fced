package timelog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/xuri/excelize/v2"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

var exportHeader = []string{"ID Log", "Nome", "ID Funcionario", "Data", "Hora", "Tipo", "Verificado"}

func verifiedLabel(v bool) string {
	if v {
		return "Sim"
	}
	return "Nao"
}

func exportRow(l timelog.TimeLog, loc *time.Location) []string {
	ts := l.Timestamp.In(loc)
	return []string{
		l.ID,
		l.EmployeeName,
		l.EmployeeID,
		ts.Format(dateLayout),
		ts.Format(timeLayout),
		string(l.Type),
		verifiedLabel(l.IsVerified),
	}
}

func renderCSV(logs []timelog.TimeLog, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, l := range logs {
		if err := w.Write(exportRow(l, loc)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const sheetName = "Pontos"

func renderXLSX(logs []timelog.TimeLog, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, l := range logs {
		row := exportRow(l, loc)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
