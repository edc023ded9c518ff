// README: Page handlers: the calculator form, form posts, share links and the sitemap.
package handlers

import (
	"embed"
	"encoding/xml"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tripcost/internal/modules/trip"
	"tripcost/internal/modules/vehicle"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

type PageHandler struct {
	trips        TripCalculator
	catalog      *vehicle.Catalog
	defaults     TripDefaults
	discountRate float64
}

func NewPageHandler(trips TripCalculator, catalog *vehicle.Catalog, defaults TripDefaults, discountRate float64) *PageHandler {
	return &PageHandler{trips: trips, catalog: catalog, defaults: defaults, discountRate: discountRate}
}

type pageData struct {
	SiteURL         string
	Params          trip.Params
	Mode            string
	TravelTime      string
	Brands          []vehicle.Brand
	Models          []vehicle.Model
	Estimate        float64
	DiscountPercent int
	Result          *trip.Result
	Error           string
	ShareURL        string
}

func (h *PageHandler) data(p trip.Params) pageData {
	d := pageData{
		SiteURL:         h.defaults.SiteURL,
		Params:          p,
		Mode:            string(p.Mode),
		Brands:          h.catalog.Brands(),
		DiscountPercent: int(math.Round(h.discountRate * 100)),
	}
	if d.Mode == "" {
		d.Mode = string(trip.TravelNow)
	}
	if !p.TravelTime.IsZero() {
		d.TravelTime = p.TravelTime.In(h.location()).Format(trip.TravelTimeLayout)
	}
	if p.Brand != "" {
		d.Models, _ = h.catalog.Models(p.Brand)
		d.Estimate, _ = h.catalog.Consumption(p.Brand, p.Model)
	}
	return d
}

func (h *PageHandler) location() *time.Location {
	if h.defaults.Location == nil {
		return time.UTC
	}
	return h.defaults.Location
}

// Index renders the form. A link carrying both endpoints is calculated right away.
func (h *PageHandler) Index(c *gin.Context) {
	p, auto := trip.ParseQuery(c.Request.URL.Query(), h.defaults.params(), h.defaults.Location)
	if !auto {
		c.HTML(http.StatusOK, "index.html", h.data(p))
		return
	}
	h.calculateAndRender(c, p)
}

// Calculate handles the plain form post.
func (h *PageHandler) Calculate(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.HTML(http.StatusBadRequest, "index.html", h.data(h.defaults.params()))
		return
	}
	p, _ := trip.ParseQuery(c.Request.PostForm, h.defaults.params(), h.defaults.Location)
	h.calculateAndRender(c, p)
}

func (h *PageHandler) calculateAndRender(c *gin.Context, p trip.Params) {
	d := h.data(p)
	res, err := h.trips.Calculate(c.Request.Context(), p)
	if err != nil {
		status, msg := tripErrorStatus(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		d.Error = msg
		c.HTML(status, "index.html", d)
		return
	}
	d.Result = &res
	d.ShareURL = h.defaults.shareURL(p)
	c.HTML(http.StatusOK, "index.html", d)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *PageHandler) Sitemap(c *gin.Context) {
	c.XML(http.StatusOK, sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{{
			Loc:        strings.TrimRight(h.defaults.SiteURL, "/") + "/",
			LastMod:    time.Now().UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "1.0",
		}},
	})
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
