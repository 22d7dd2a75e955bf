package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/oliverisaac/goli"
	"github.com/oliverisaac/moodsignage/lib/moodclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func init() {
	goli.InitLogrus(logrus.InfoLevel)
}

const usage = `usage: moodctl [-endpoint URL] <command> [flags]

commands:
  log     save today's entry; only the flags you pass are sent
  recent  print the entries of the last days
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logrus.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("moodctl", flag.ContinueOnError)
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	endpoint := global.String("endpoint", goli.DefaultEnv("MOODCTL_ENDPOINT", "http://localhost:5001"), "moodsignage server URL")
	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	switch rest[0] {
	case "log":
		return logToday(*endpoint, rest[1:], out)
	case "recent":
		return printRecent(*endpoint, rest[1:], out)
	default:
		global.Usage()
		return errors.Errorf("unknown command %q", rest[0])
	}
}

func logToday(endpoint string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	ints := map[string]*int{
		"mood":     fs.Int("mood", 3, "mood 1-5"),
		"sleep":    fs.Int("sleep", 7, "hours slept"),
		"creative": fs.Int("creative", 0, "creative hours"),
		"meals":    fs.Int("meals", 0, "meals eaten"),
		"exercise": fs.Int("exercise", 0, "exercise minutes"),
	}
	medicine := fs.Bool("medicine", false, "took medicine")
	if err := fs.Parse(args); err != nil {
		return err
	}

	apiNames := map[string]string{
		"mood":     "mood",
		"sleep":    "sleep_hours",
		"creative": "creative_hours",
		"meals":    "meal_count",
		"exercise": "exercise_minutes",
	}
	fields := map[string]int{}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "medicine" {
			if *medicine {
				fields["took_medicine"] = 1
			} else {
				fields["took_medicine"] = 0
			}
			return
		}
		fields[apiNames[f.Name]] = *ints[f.Name]
	})

	date, err := moodclient.SaveToday(endpoint, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s\n", date)
	return nil
}

func printRecent(endpoint string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recent", flag.ContinueOnError)
	days := fs.Int("days", 0, "window size in days (server default when 0)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := moodclient.Recent(endpoint, *days)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tMOOD\tSLEEP\tCREATIVE\tMEALS\tEXERCISE\tMEDICINE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n", e.Date, e.Mood, e.SleepHours, e.CreativeHours, e.MealCount, e.ExerciseMinutes, e.TookMedicine)
	}
	return w.Flush()
}
