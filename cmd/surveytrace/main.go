// main.go - scripted respondent replay tool
//
// Drives the full capture pipeline (controller, filters, queue,
// submitter) with a simulated respondent, against a running collector.
// Useful for end-to-end verification and for populating the recent
// events view with realistic data.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"surveytrace/internal"
	"surveytrace/internal/config"
	"surveytrace/internal/tracker"
)

func main() {
	baseURL := flag.String("url", "", "Collector base URL (default from SURVEYTRACE_COLLECTOR_BASE_URL)")
	surveyID := flag.String("survey", "demo-survey", "Survey identifier for diagnostic output")
	questions := flag.Int("questions", 3, "Number of questions to answer")
	options := flag.Int("options", 4, "Options per question")
	locale := flag.String("locale", "", "Label locale, ko or en (default from SURVEYTRACE_LOCALE)")
	dryRun := flag.Bool("dry-run", false, "Do not submit events, diagnostic output only")
	flag.Parse()

	cfg := config.GetConfig()
	if *baseURL != "" {
		cfg.CollectorBaseURL = *baseURL
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	if *dryRun {
		cfg.ServerLogging = false
	}

	app, err := internal.NewAppWithConfig(cfg, *surveyID)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	for q := 0; q < *questions; q++ {
		// Backend question ids are one-based.
		app.Controller.ActivateQuestion(strconv.Itoa(q+1), optionIDs(*options))
		answerQuestion(app.Controller, *options)
	}
	app.Shutdown()

	fmt.Printf("replayed %d questions against %s\n", *questions, cfg.CollectorBaseURL)
}

// answerQuestion plays one question: some pointer movement, a few
// hovers (one below the noise floor), an idle pause, then a selection
// with one change of mind.
func answerQuestion(ctrl *tracker.Controller, options int) {
	move := func(times int, gap time.Duration) {
		for i := 0; i < times; i++ {
			time.Sleep(gap)
			ctrl.OnPointerMove()
		}
	}

	move(3, 50*time.Millisecond)

	// A glance too short to count.
	short := optionID(rand.Intn(options))
	ctrl.OnEnter(short)
	time.Sleep(150 * time.Millisecond)
	ctrl.OnLeave(short)

	// A real hover over the eventual first choice.
	first := rand.Intn(options)
	ctrl.OnEnter(optionID(first))
	time.Sleep(tracker.MinHoverDuration + 200*time.Millisecond)
	ctrl.OnLeave(optionID(first))
	ctrl.OnSelect(optionID(first))

	// Hesitate long enough to register an idle period, then move again.
	time.Sleep(tracker.IdleThreshold + 300*time.Millisecond)
	move(2, 50*time.Millisecond)

	// Change of mind.
	second := (first + 1) % options
	ctrl.OnEnter(optionID(second))
	time.Sleep(600 * time.Millisecond)
	ctrl.OnLeave(optionID(second))
	ctrl.OnSelect(optionID(second))
}

func optionIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = optionID(i)
	}
	return ids
}

func optionID(i int) string {
	return "option_" + strconv.Itoa(i)
}
