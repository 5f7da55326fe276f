package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-pricer/internal/curve"
)

const (
	JSONFile = "curve.json"
	CSVFile  = "curve.csv"
)

// Row is a curve point rendered at fixed precision.
type Row struct {
	Spot   string `csv:"spot" json:"spot"`
	Price  string `csv:"price" json:"price"`
	Payoff string `csv:"payoff" json:"payoff"`
}

// Rows formats the curve points: spot to cents, values to 4 decimals.
func Rows(c *curve.Curve) []Row {
	rows := make([]Row, 0, len(c.Points))
	for _, p := range c.Points {
		rows = append(rows, Row{
			Spot:   decimal.NewFromFloat(p.Spot).StringFixed(2),
			Price:  decimal.NewFromFloat(p.Price).StringFixed(4),
			Payoff: decimal.NewFromFloat(p.Payoff).StringFixed(4),
		})
	}
	return rows
}

func WriteJSON(c *curve.Curve, outdir string) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, JSONFile), b, 0644)
}

func WriteCSV(c *curve.Curve, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, CSVFile))
	if err != nil {
		return err
	}
	defer f.Close()

	rows := Rows(c)
	return gocsv.MarshalFile(&rows, f)
}

// PrintTable writes a human-readable summary of the curve to w, showing at
// most maxRows evenly sampled points (all of them when maxRows <= 0).
func PrintTable(w io.Writer, c *curve.Curve, maxRows int) {
	fmt.Fprintf(w, "%s K=%s expiry=%s as of %s\n",
		c.Spec.Kind,
		decimal.NewFromFloat(c.Spec.Strike).StringFixed(2),
		c.Spec.Expiry.Format("2006-01-02"),
		c.AsOf.Format("2006-01-02"),
	)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Spot", "Price", "Payoff"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	rows := Rows(c)
	for _, i := range sample(len(rows), maxRows) {
		table.Append([]string{rows[i].Spot, rows[i].Price, rows[i].Payoff})
	}
	table.Render()
}

// sample picks up to max indexes from [0, n), always keeping both ends.
func sample(n, max int) []int {
	if max <= 0 || n <= max {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	if max == 1 {
		return []int{0}
	}

	idx := make([]int, 0, max)
	for i := 0; i < max; i++ {
		idx = append(idx, i*(n-1)/(max-1))
	}
	return idx
}
