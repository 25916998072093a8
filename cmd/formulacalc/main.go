package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"golang.org/x/text/language"

	"github.com/rich682/vergo-formula"
)

// formulacalc is an interactive calculator over a small demo workbook.
// Input starting with '=' is evaluated as an A1-style formula against the
// Jan sheet; input containing braces is evaluated as a named-column
// formula once per row. "rows" prints the demo data.

var demoColumns = []formula.Column{
	{Key: "id", Label: "ID"},
	{Key: "revenue", Label: "Revenue", Type: "currency"},
	{Key: "cost", Label: "Cost", Type: "currency"},
	{Key: "units", Label: "Units"},
}

func demoSheets() []*formula.SheetData {
	return []*formula.SheetData{
		{
			ID:    "jan",
			Label: "Jan",
			Rows: []formula.Row{
				{"id": "north", "revenue": "$1,200.00", "cost": 300.0, "units": 40.0},
				{"id": "south", "revenue": "$950.50", "cost": 410.0, "units": 31.0},
				{"id": "west", "revenue": "$2,480.00", "cost": 890.25, "units": 77.0},
			},
		},
		{
			ID:    "feb",
			Label: "Feb",
			Rows: []formula.Row{
				{"id": "north", "revenue": "$1,310.00", "cost": 295.0, "units": 44.0},
				{"id": "south", "revenue": "$1,005.00", "cost": 402.5, "units": 35.0},
				{"id": "west", "revenue": "$2,150.75", "cost": 910.0, "units": 70.0},
			},
		},
	}
}

func main() {
	locale := flag.String("locale", "en-US", "BCP 47 locale for rendered results")
	flag.Parse()

	tag, err := language.Parse(*locale)
	if err != nil {
		log.Fatalf("invalid locale %q: %v", *locale, err)
	}

	sheets := demoSheets()
	ctx := formula.NewEvalContext("jan", sheets, demoColumns, "id")

	fmt.Println("formulacalc: =A1-style or {column}-style formulas over the demo workbook")
	fmt.Println(`try: =SUM(B1:B3)   =ROUND('Feb'!B1/C1,2)   {Revenue} - {Cost}   rows`)

	p := prompt.New(
		func(in string) {
			input := strings.TrimSpace(in)
			if input == "" {
				return
			}

			switch input {
			case "exit", "quit":
				os.Exit(0)
			case "rows":
				printRows(sheets)
				return
			}

			if strings.ContainsAny(input, "{}") {
				evalPerRow(input, ctx, sheets[0], tag)
				return
			}

			v, err := formula.EvaluateCellFormula(input, ctx)
			if err != nil {
				fmt.Println("error:", err)
				return
			}
			fmt.Println(formula.Render(v, tag))
		},
		completer,
		prompt.OptionTitle("formulacalc"),
		prompt.OptionPrefix("formula> "),
	)
	p.Run()
}

func evalPerRow(input string, ctx *formula.EvalContext, sheet *formula.SheetData, tag language.Tag) {
	ast, _, err := formula.ParseColumnFormula(input)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, row := range sheet.Rows {
		v, err := formula.EvalColumn(ast, ctx, row)
		if err != nil {
			fmt.Printf("%-8v error: %v\n", row["id"], err)
			continue
		}
		fmt.Printf("%-8v %s\n", row["id"], formula.Render(v, tag))
	}
}

func printRows(sheets []*formula.SheetData) {
	for _, sheet := range sheets {
		fmt.Println(sheet.Label + ":")
		for i, row := range sheet.Rows {
			fmt.Printf("  %d  id=%v revenue=%v cost=%v units=%v\n",
				i+1, row["id"], row["revenue"], row["cost"], row["units"])
		}
	}
}

func completer(d prompt.Document) []prompt.Suggest {
	suggestions := []prompt.Suggest{
		{Text: "SUM(", Description: "sum of arguments"},
		{Text: "AVERAGE(", Description: "mean of arguments"},
		{Text: "COUNT(", Description: "count of numeric arguments"},
		{Text: "MIN(", Description: "smallest argument"},
		{Text: "MAX(", Description: "largest argument"},
		{Text: "ROUND(", Description: "round to N decimals"},
		{Text: "ABS(", Description: "absolute value"},
		{Text: "{Revenue}", Description: "revenue column"},
		{Text: "{Cost}", Description: "cost column"},
		{Text: "{Units}", Description: "units column"},
		{Text: "rows", Description: "print the demo workbook"},
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}
