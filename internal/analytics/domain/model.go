package domain

import (
	"context"
	"errors"
	"time"
)

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func ParsePeriod(v string) (Period, error) {
	switch p := Period(v); p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	case "":
		return PeriodMonth, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// TopProduct is a line-item name with the quantity sold.
type TopProduct struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Summary holds the KPIs of one period. Money is in centavos.
type Summary struct {
	Period        Period       `json:"period"`
	From          time.Time    `json:"from"`
	To            time.Time    `json:"to"`
	TotalSales    int64        `json:"total_sales"`
	OrderCount    int          `json:"order_count"`
	AverageTicket int64        `json:"average_ticket"`
	TopProducts   []TopProduct `json:"top_products"`
}

type Response struct {
	Summary
	TotalSalesLabel    string `json:"total_sales_label"`
	AverageTicketLabel string `json:"average_ticket_label"`
}

type Service interface {
	Summary(ctx context.Context, storeID string, period string) (*Response, error)
}

var ErrInvalidPeriod = errors.New("invalid_period")
