// Command genpair generates a left/right pair of Parquet files for
// exercising pqcompare. The right file reuses the left file's keys but
// perturbs a configurable fraction of the rows, drops a tail of rows and
// appends new ones, so every reporting path has something to show.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/google/uuid"
)

type config struct {
	outDir   string
	rows     int
	seed     int64
	diffRate float64
	nullRate float64
	extraCol bool
}

// row is one generated record; the right file mutates copies of these.
type row struct {
	id       string
	category string
	qty      int64
	price    float64
	inStock  bool
	tags     []int64
	nullQty  bool
}

var categories = []string{"books", "games", "garden", "grocery", "music", "outdoor", "toys"}

func main() {
	cfg := parseFlags()

	if err := os.MkdirAll(filepath.Join(cfg.outDir, "left"), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.outDir, "right"), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	rnd := rand.New(rand.NewSource(cfg.seed))
	rows := generateRows(cfg, rnd)

	leftPath := filepath.Join(cfg.outDir, "left", "data.parquet")
	if err := writeParquet(leftPath, rows, false); err != nil {
		log.Fatalf("failed to write left file: %v", err)
	}

	rightRows := perturb(rows, cfg, rnd)
	rightPath := filepath.Join(cfg.outDir, "right", "data.parquet")
	if err := writeParquet(rightPath, rightRows, cfg.extraCol); err != nil {
		log.Fatalf("failed to write right file: %v", err)
	}

	log.Printf("wrote %s (%d rows) and %s (%d rows)", leftPath, len(rows), rightPath, len(rightRows))
	log.Printf("try: pqcompare compare --key id %s %s", leftPath, rightPath)
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.outDir, "outdir", "testdata", "output directory; left/ and right/ trees are created under it")
	flag.IntVar(&cfg.rows, "rows", 1000, "number of rows in the left file")
	flag.Int64Var(&cfg.seed, "seed", 42, "random seed")
	flag.Float64Var(&cfg.diffRate, "diffs", 0.1, "fraction of common rows perturbed in the right file")
	flag.Float64Var(&cfg.nullRate, "nulls", 0.05, "fraction of null qty cells")
	flag.BoolVar(&cfg.extraCol, "extra-col", true, "give the right file an extra column")
	flag.Parse()
	return cfg
}

func generateRows(cfg config, rnd *rand.Rand) []row {
	rows := make([]row, cfg.rows)
	for i := range rows {
		tags := make([]int64, rnd.Intn(4))
		for j := range tags {
			tags[j] = int64(rnd.Intn(100))
		}
		rows[i] = row{
			id:       uuid.New().String(),
			category: categories[rnd.Intn(len(categories))],
			qty:      int64(rnd.Intn(500)),
			price:    float64(rnd.Intn(100000)) / 100,
			inStock:  rnd.Float64() > 0.2,
			tags:     tags,
			nullQty:  rnd.Float64() < cfg.nullRate,
		}
	}
	return rows
}

// perturb builds the right-side rows: most are copied verbatim, diffRate of
// them get a changed price or qty, the last few are dropped and a handful of
// fresh keys are appended.
func perturb(rows []row, cfg config, rnd *rand.Rand) []row {
	dropped := len(rows) / 20
	kept := rows[:len(rows)-dropped]

	out := make([]row, 0, len(kept)+dropped)
	for _, r := range kept {
		if rnd.Float64() < cfg.diffRate {
			switch rnd.Intn(3) {
			case 0:
				r.price *= 1.1
			case 1:
				r.qty += int64(rnd.Intn(10) + 1)
			case 2:
				r.inStock = !r.inStock
			}
		}
		out = append(out, r)
	}

	extra := generateRows(config{rows: dropped, nullRate: cfg.nullRate}, rnd)
	return append(out, extra...)
}

func schemaFor(extraCol bool) *arrow.Schema {
	fields := []arrow.Field{
		{Name: "id", Type: arrow.BinaryTypes.String},
		{Name: "category", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "qty", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "price", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "in_stock", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		{Name: "tags", Type: arrow.ListOf(arrow.PrimitiveTypes.Int64), Nullable: true},
	}
	if extraCol {
		fields = append(fields, arrow.Field{Name: "audit_note", Type: arrow.BinaryTypes.String, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

func writeParquet(path string, rows []row, extraCol bool) error {
	schema := schemaFor(extraCol)
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	ids := builder.Field(0).(*array.StringBuilder)
	cats := builder.Field(1).(*array.StringBuilder)
	qtys := builder.Field(2).(*array.Int64Builder)
	prices := builder.Field(3).(*array.Float64Builder)
	stocks := builder.Field(4).(*array.BooleanBuilder)
	tags := builder.Field(5).(*array.ListBuilder)
	tagElems := tags.ValueBuilder().(*array.Int64Builder)

	for _, r := range rows {
		ids.Append(r.id)
		cats.Append(r.category)
		if r.nullQty {
			qtys.AppendNull()
		} else {
			qtys.Append(r.qty)
		}
		prices.Append(r.price)
		stocks.Append(r.inStock)
		tags.Append(true)
		tagElems.AppendValues(r.tags, nil)
		if extraCol {
			builder.Field(6).(*array.StringBuilder).Append("generated")
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.NewArrowWriterProperties())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return writer.Close()
}
