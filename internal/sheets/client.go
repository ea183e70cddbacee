package sheets

import (
	"context"
	"fmt"
	"time"

	"xtm_reward_cleaner/internal/cell"
	"xtm_reward_cleaner/internal/pipeline"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service *sheets.Service
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

// ReadGrid reads the source range as typed cells. Grid data is used instead of
// the plain values API because the cleaner must tell date-formatted cells
// apart from bare numbers, which formatted values cannot express. Row 0 is
// captured as the untouched header.
func (c *Client) ReadGrid(ctx context.Context, spreadsheetID, readRange string, loc *time.Location) (pipeline.Table, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Ranges(readRange).
		IncludeGridData(true).
		Context(ctx).
		Do()
	if err != nil {
		return pipeline.Table{}, fmt.Errorf("failed to read sheet grid: %w", err)
	}
	if len(resp.Sheets) == 0 || len(resp.Sheets[0].Data) == 0 {
		return pipeline.Table{}, fmt.Errorf("no grid data returned for range %s", readRange)
	}

	var table pipeline.Table
	for i, rd := range resp.Sheets[0].Data[0].RowData {
		if i == 0 {
			table.Header = headerValues(rd)
			continue
		}
		table.Rows = append(table.Rows, cell.Row{
			A: cellAt(rd, 0, loc),
			B: cellAt(rd, 1, loc),
		})
	}
	return table, nil
}

// WriteTable clears the destination range and writes the whole output table in
// one update. Values go in as USER_ENTERED so canonical date strings become
// real datetime cells.
func (c *Client) WriteTable(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, writeRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear destination range: %w", err)
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}
	_, err = c.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write output table: %w", err)
	}

	return nil
}

func cellAt(rd *sheets.RowData, index int, loc *time.Location) cell.Cell {
	if rd == nil || len(rd.Values) <= index {
		return cell.Empty()
	}
	return cell.FromCellData(rd.Values[index], loc)
}

func headerValues(rd *sheets.RowData) []interface{} {
	if rd == nil {
		return nil
	}
	var header []interface{}
	for _, cd := range rd.Values {
		if cd == nil {
			header = append(header, "")
			continue
		}
		header = append(header, cd.FormattedValue)
	}
	return header
}
