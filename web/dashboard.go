package web

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	ds "github.com/starfederation/datastar-go/datastar"
	"serialplot/config"
	"serialplot/models"
	"serialplot/plotter"
	"serialplot/utils"
)

// Controller runs commands against the plot engine on its own goroutine.
type Controller interface {
	Submit(ctx context.Context, fn func(*plotter.Engine)) error
}

type Dashboard struct {
	templates  *template.Template
	controller Controller
	channels   []channelInfo

	mu     sync.Mutex
	hidden map[string]map[int]bool // clientID -> channel index -> hidden
}

type channelInfo struct {
	Index  int
	Colour string
	Hidden bool
}

type scrollSig struct {
	HScroll struct {
		Value int `json:"value"`
	} `json:"hscroll"`
	VScroll struct {
		Value int `json:"value"`
	} `json:"vscroll"`
}

// frameSignals are the datastar signals patched on every frame.
type frameSignals struct {
	HScroll  models.ScrollState `json:"hscroll"`
	VScroll  models.ScrollState `json:"vscroll"`
	X        string             `json:"x"`
	Y        string             `json:"y"`
	Ticks    int                `json:"ticks"`
	Accepted int                `json:"accepted"`
	Rejected int                `json:"rejected"`
}

func NewDashboard(controller Controller, colours [][]models.ColourStop) (dashboard *Dashboard, err error) {
	dashboard = &Dashboard{
		controller: controller,
		hidden:     make(map[string]map[int]bool),
	}
	for i, stops := range colours {
		dashboard.channels = append(dashboard.channels, channelInfo{Index: i, Colour: config.PrimaryColour(stops)})
	}
	templates := template.New("").Funcs(template.FuncMap{
		"channelID": func(i int) string { return fmt.Sprintf("channel-%d", i) },
	})
	dashboard.templates, err = templates.ParseFS(Templates, "templates/*.gohtml")
	return dashboard, err
}

func (d *Dashboard) Templates() *template.Template {
	return d.templates
}

func (d *Dashboard) Handlers() map[string]func(w http.ResponseWriter, r *http.Request) {
	return map[string]func(w http.ResponseWriter, r *http.Request){
		"POST /scroll/{axis}":          d.ScrollHandler,
		"POST /zoom/{axis}":            d.ZoomHandler,
		"POST /pan/{axis}":             d.PanHandler,
		"POST /rescale":                d.RescaleHandler,
		"POST /clear":                  d.ClearHandler,
		"POST /toggle-channel/{index}": d.ToggleChannelHandler,
	}
}

// Data is the index page data, with the legend as the client last left it.
func (d *Dashboard) Data(clientID string) map[string]interface{} {
	hidden := d.hiddenChannels(clientID)
	channels := make([]channelInfo, len(d.channels))
	for i, c := range d.channels {
		c.Hidden = hidden[c.Index]
		channels[i] = c
	}
	return map[string]interface{}{
		"channels": channels,
	}
}

// OnFrame draws the frame on the client's canvas and patches the scroll bars
// and status line.
func (d *Dashboard) OnFrame(sse *ds.ServerSentEventGenerator, frame *models.Frame, clientID string) error {
	visible := frame.WithoutChannels(d.hiddenChannels(clientID))
	payload, err := sonic.Marshal(visible)
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", frame.Seq, err)
	}
	if err := sse.ExecuteScript(fmt.Sprintf("draw(%s)", payload)); err != nil {
		return err
	}

	signals, err := sonic.Marshal(frameSignals{
		HScroll:  frame.Horizontal,
		VScroll:  frame.Vertical,
		X:        formatRange(frame.XRange),
		Y:        formatRange(frame.YRange),
		Ticks:    frame.Ticks,
		Accepted: frame.Accepted,
		Rejected: frame.Rejected,
	})
	if err != nil {
		return fmt.Errorf("encoding signals: %w", err)
	}
	return sse.PatchSignals(signals)
}

func formatRange(r models.Range) string {
	return fmt.Sprintf("%s … %s", utils.FormatValue(r.Lower, 2), utils.FormatValue(r.Upper, 2))
}

// ScrollHandler is called when the client moves one of the scroll bars.
func (d *Dashboard) ScrollHandler(w http.ResponseWriter, r *http.Request) {
	axis, err := plotter.ParseAxis(r.PathValue("axis"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var sig scrollSig
	if err := ds.ReadSignals(r, &sig); err != nil {
		log.Printf("error reading signals: %s", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	d.submit(w, r, func(e *plotter.Engine) {
		if axis == plotter.YAxis {
			e.OnVerticalScroll(sig.VScroll.Value)
		} else {
			e.OnHorizontalScroll(sig.HScroll.Value)
		}
	})
}

// ZoomHandler scales an axis around its center, ?factor=0.5 halves the
// visible size.
func (d *Dashboard) ZoomHandler(w http.ResponseWriter, r *http.Request) {
	axis, factor, ok := axisAndValue(w, r, "factor")
	if !ok {
		return
	}
	d.submit(w, r, func(e *plotter.Engine) { e.Zoom(axis, factor) })
}

// PanHandler shifts an axis by ?delta= axis units.
func (d *Dashboard) PanHandler(w http.ResponseWriter, r *http.Request) {
	axis, delta, ok := axisAndValue(w, r, "delta")
	if !ok {
		return
	}
	d.submit(w, r, func(e *plotter.Engine) { e.Pan(axis, delta) })
}

func (d *Dashboard) RescaleHandler(w http.ResponseWriter, r *http.Request) {
	d.submit(w, r, (*plotter.Engine).Rescale)
}

func (d *Dashboard) ClearHandler(w http.ResponseWriter, r *http.Request) {
	d.submit(w, r, (*plotter.Engine).Clear)
}

// ToggleChannelHandler hides or shows a channel for the calling client only.
func (d *Dashboard) ToggleChannelHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 || index >= len(d.channels) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	clientIdentifier := getClientID(w, r)
	hidden := d.toggleChannel(clientIdentifier, index)

	channel := d.channels[index]
	channel.Hidden = hidden

	var buf strings.Builder
	if err := d.templates.ExecuteTemplate(&buf, "legend.item", channel); err != nil {
		log.Printf("couldn't execute legend item template %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	sse := ds.NewSSE(w, r)
	_ = sse.PatchElements(buf.String())
}

func (d *Dashboard) submit(w http.ResponseWriter, r *http.Request, fn func(*plotter.Engine)) {
	if err := d.controller.Submit(r.Context(), fn); err != nil {
		log.Printf("couldn't submit %s %s: %s", r.Method, r.URL.Path, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func axisAndValue(w http.ResponseWriter, r *http.Request, param string) (plotter.Axis, float64, bool) {
	axis, err := plotter.ParseAxis(r.PathValue("axis"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return axis, 0, false
	}
	value, err := strconv.ParseFloat(r.URL.Query().Get(param), 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("bad %s: %s", param, err), http.StatusBadRequest)
		return axis, 0, false
	}
	return axis, value, true
}

func (d *Dashboard) hiddenChannels(clientID string) map[int]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	hidden := d.hidden[clientID]
	if len(hidden) == 0 {
		return nil
	}
	hiddenCopy := make(map[int]bool, len(hidden))
	for i, h := range hidden {
		hiddenCopy[i] = h
	}
	return hiddenCopy
}

func (d *Dashboard) toggleChannel(clientID string, index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.hidden[clientID]; !ok {
		d.hidden[clientID] = make(map[int]bool)
	}
	if d.hidden[clientID][index] {
		delete(d.hidden[clientID], index)
		return false
	}
	d.hidden[clientID][index] = true
	return true
}
