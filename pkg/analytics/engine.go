// Package analytics turns the raw view event log into per-video and
// per-location rollups. The engine is read-only: it loads a tenant's events
// and config labels, then merges them in memory.
package analytics

import (
	"errors"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/hotspotlabs/viewgate/pkg/gating"
	"github.com/hotspotlabs/viewgate/pkg/views"
)

// naBucket groups events that lack a video URL or an area id.
const naBucket = "N/A"

// dateLayout is the accepted layout for the from/to query parameters.
const dateLayout = "2006-01-02"

// ErrInvalidDate is returned when a from/to parameter cannot be parsed.
var ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")

// Report is the aggregated stats payload for one tenant and date window.
type Report struct {
	TotalViews      int             `json:"total_views"`
	CompletedViews  int             `json:"completed_views"`
	UniqueCustomers int             `json:"unique_customers"`
	ByVideo         []VideoGroup    `json:"by_video"`
	ByLocation      []LocationGroup `json:"by_location"`
}

// VideoGroup is the rollup for one video URL.
type VideoGroup struct {
	VideoURL        string  `json:"video_url"`
	VideoLabel      *string `json:"video_label"`
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	UniqueCustomers int     `json:"unique_customers"`
}

// LocationGroup is the rollup for one area.
type LocationGroup struct {
	AreaID    string `json:"area_id"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// Engine computes stats reports from the view event log and the gating
// config table.
type Engine struct {
	events  *views.Store
	configs *gating.Store
}

// NewEngine creates a new Engine over the given stores.
func NewEngine(events *views.Store, configs *gating.Store) *Engine {
	return &Engine{events: events, configs: configs}
}

// Compute builds the stats report for a tenant. from and to are optional
// "2006-01-02" dates; the window is inclusive, with to expanded to the end
// of its calendar day so date-only input covers the whole day. The event
// and config loads are independent and run concurrently.
func (e *Engine) Compute(tenantID, from, to string) (*Report, error) {
	fromTime, toTime, err := parseWindow(from, to)
	if err != nil {
		return nil, err
	}

	var (
		events    []views.ViewEvent
		labels    map[string]string
		eventsErr error
		labelsErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		events, eventsErr = e.events.EventsInRange(tenantID, fromTime, toTime)
	}()
	go func() {
		defer wg.Done()
		labels, labelsErr = e.configs.VideoLabels(tenantID)
	}()
	wg.Wait()

	if eventsErr != nil {
		return nil, fmt.Errorf("compute stats: %w", eventsErr)
	}
	if labelsErr != nil {
		return nil, fmt.Errorf("compute stats: %w", labelsErr)
	}

	return aggregate(events, labels), nil
}

// parseWindow converts the optional date strings into inclusive time bounds.
func parseWindow(from, to string) (*time.Time, *time.Time, error) {
	var fromTime, toTime *time.Time

	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return nil, nil, fmt.Errorf("from date %q: %w", from, ErrInvalidDate)
		}
		fromTime = &t
	}

	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return nil, nil, fmt.Errorf("to date %q: %w", to, ErrInvalidDate)
		}
		end := t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		toTime = &end
	}

	return fromTime, toTime, nil
}

// aggregate merges the loaded events and the config label table into a
// report. Groups appear in order of first occurrence; per-group counts are
// set-based where uniqueness matters, so duplicates in the log never
// inflate customer counts.
func aggregate(events []views.ViewEvent, labels map[string]string) *Report {
	report := &Report{
		TotalViews: len(events),
		ByVideo:    []VideoGroup{},
		ByLocation: []LocationGroup{},
	}

	allCustomers := mapset.NewThreadUnsafeSet[string]()
	videoCustomers := map[string]mapset.Set[string]{}
	videoIndex := map[string]int{}
	locationIndex := map[string]int{}

	for _, event := range events {
		if event.Completed {
			report.CompletedViews++
		}
		if event.CustomerID != "" {
			allCustomers.Add(event.CustomerID)
		}

		videoKey := event.VideoURL
		if videoKey == "" {
			videoKey = naBucket
		}
		vi, ok := videoIndex[videoKey]
		if !ok {
			vi = len(report.ByVideo)
			videoIndex[videoKey] = vi
			report.ByVideo = append(report.ByVideo, VideoGroup{VideoURL: videoKey})
			videoCustomers[videoKey] = mapset.NewThreadUnsafeSet[string]()
		}
		group := &report.ByVideo[vi]
		group.Total++
		if event.Completed {
			group.Completed++
		}
		if event.CustomerID != "" {
			videoCustomers[videoKey].Add(event.CustomerID)
		}
		// Label precedence: the event's own snapshot, then the config table.
		if group.VideoLabel == nil {
			if event.VideoLabel != "" {
				label := event.VideoLabel
				group.VideoLabel = &label
			} else if label, ok := labels[event.VideoURL]; ok && label != "" {
				group.VideoLabel = &label
			}
		}

		areaKey := event.AreaID
		if areaKey == "" {
			areaKey = naBucket
		}
		li, ok := locationIndex[areaKey]
		if !ok {
			li = len(report.ByLocation)
			locationIndex[areaKey] = li
			report.ByLocation = append(report.ByLocation, LocationGroup{
				AreaID: areaKey,
				Name:   areaKey,
			})
		}
		location := &report.ByLocation[li]
		location.Total++
		if event.Completed {
			location.Completed++
		}
		// First non-empty display name wins; the id stays as fallback.
		if location.Name == location.AreaID && event.AreaName != "" {
			location.Name = event.AreaName
		}
	}

	report.UniqueCustomers = allCustomers.Cardinality()
	for i := range report.ByVideo {
		report.ByVideo[i].UniqueCustomers = videoCustomers[report.ByVideo[i].VideoURL].Cardinality()
	}

	return report
}
