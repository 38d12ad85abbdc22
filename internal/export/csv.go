// Package export renders inventory and customer data as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/lupa-autoricambi/gestionale/internal/models"
)

var inventoryHeader = []string{"Code", "Part", "Machine", "Quantity", "Shelf", "Slot", "Tier"}

// InventoryFilename is the download name of the inventory export for day.
func InventoryFilename(day time.Time) string {
	return fmt.Sprintf("Magazzino-Lupa-%s.csv", day.Format("02-01-2006"))
}

// WriteInventoryCSV writes one row per article after a header row.
func WriteInventoryCSV(w io.Writer, articles []models.Article) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range articles {
		row := []string{
			a.Code,
			a.PartName,
			a.MachineName,
			strconv.Itoa(a.Quantity),
			deref((*string)(a.Shelf)),
			deref(a.SlotCode),
			deref((*string)(a.Tier)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", a.Code, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
