package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"catch-guard/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Reads the audit trail straight from BadgerDB, without going through the
// running service.
func main() {
	dbPath := flag.String("db", "/tmp/catch-guard/badger", "Path to badger DB")
	prefix := flag.String("prefix", "audit:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Time", "Type", "Content ID", "Status", "Confidence", "Reason", "Categories"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()

			err := item.Value(func(v []byte) error {
				var record domain.AuditRecord
				if err := json.Unmarshal(v, &record); err != nil {
					// Keep scanning instead of stopping the whole dump
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				table.Append([]string{
					string(item.Key()),
					record.At.Format("15:04:05"),
					string(record.ContentType),
					record.ContentID,
					colorStatus(record.Status),
					fmt.Sprintf("%.2f", record.Confidence),
					record.Reason,
					strings.Join(record.Categories, " "),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func colorStatus(status domain.Status) string {
	switch status {
	case domain.StatusApproved:
		return color.Green.Sprint(status)
	case domain.StatusRejected:
		return color.Red.Sprint(status)
	case domain.StatusPendingReview:
		return color.Yellow.Sprint(status)
	default:
		return string(status)
	}
}

func openDB(path string) (*badger.DB, error) {
	options := badger.DefaultOptions(path).
		WithLoggingLevel(badger.ERROR).
		WithBypassLockGuard(true).
		WithReadOnly(true)
	return badger.Open(options)
}
