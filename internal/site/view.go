package site

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"

	"github.com/Zachkp/portfolio/internal/models"
	"github.com/Zachkp/portfolio/internal/motion"
)

// DefaultIconClass is used for projects without an icon.
const DefaultIconClass = "icon-computing"

// ExperienceView is one timeline entry as rendered.
type ExperienceView struct {
	Title       string
	Company     string
	Type        string
	Period      string
	Description []string
	// Summary stands in for an empty Description.
	Summary    string
	DelayClass string
	Indicator  template.CSS
}

// ProjectView is one project slide.
type ProjectView struct {
	Number      int
	Title       string
	Description string
	Link        string
	IconClass   string
	DelayClass  string
	Active      bool
}

// WorkView is the work-content fragment.
type WorkView struct {
	Experiences []ExperienceView
}

// ProjectsView is the projects-content fragment: the slide deck.
type ProjectsView struct {
	Projects []ProjectView
	Current  int
	Total    int
}

// OverlayView is a hero caption bound to its scroll window.
type OverlayView struct {
	Caption string
	Start   float64
	End     float64
}

// Page is the full index page.
type Page struct {
	Theme        string
	Tagline      string
	AboutMe      string
	ContactIntro string
	OwnerEmail   string
	Poster       string
	Overlays     []OverlayView
	Manifest     template.JS
	Work         WorkView
	Projects     ProjectsView
}

// PageInput is what the page handler gathers before rendering.
type PageInput struct {
	Theme       motion.Theme
	OwnerEmail  string
	Hero        motion.HeroManifest
	Experiences []models.Experience
	Projects    []models.Project
}

// Period renders the role's span as years, "Present" when it is ongoing.
func Period(e models.Experience) string {
	end := "Present"
	if e.EndDate != nil {
		end = strconv.Itoa(e.EndDate.Year())
	}
	return fmt.Sprintf("%d - %s", e.StartDate.Year(), end)
}

// DelayClass staggers entrance animations; the first item has none.
func DelayClass(i int) string {
	if i <= 0 {
		return ""
	}
	return "delay-" + strconv.Itoa(i)
}

// NewWorkView builds the timeline in store order.
func NewWorkView(exps []models.Experience) WorkView {
	views := make([]ExperienceView, 0, len(exps))
	for i, e := range exps {
		var summary string
		if len(e.Description) == 0 {
			summary = fmt.Sprintf("Role involves core responsibilities inside %s.", e.Company)
		}
		views = append(views, ExperienceView{
			Title:       e.Title,
			Company:     e.Company,
			Type:        e.Type,
			Period:      Period(e),
			Description: e.Description,
			Summary:     summary,
			DelayClass:  DelayClass(i),
			Indicator:   template.CSS(motion.BorderColor),
		})
	}
	return WorkView{Experiences: views}
}

// NewProjectsView builds the slide deck with the first slide active.
func NewProjectsView(projs []models.Project) ProjectsView {
	deck := motion.NewCarousel(len(projs))
	views := make([]ProjectView, 0, len(projs))
	for i, p := range projs {
		icon := p.IconClass
		if icon == "" {
			icon = DefaultIconClass
		}
		views = append(views, ProjectView{
			Number:      i + 1,
			Title:       p.Title,
			Description: p.Description,
			Link:        p.Link,
			IconClass:   icon,
			DelayClass:  DelayClass(i),
			Active:      deck.Active(i),
		})
	}
	return ProjectsView{Projects: views, Current: deck.Counter(), Total: deck.Len()}
}

// NewPage assembles the index page.
func NewPage(in PageInput) (*Page, error) {
	manifest, err := json.Marshal(in.Hero)
	if err != nil {
		return nil, fmt.Errorf("site.NewPage: %w", err)
	}

	overlays := make([]OverlayView, 0, len(in.Hero.Overlays))
	for i, w := range in.Hero.Overlays {
		caption := ""
		if i < len(HeroCaptions) {
			caption = HeroCaptions[i]
		}
		overlays = append(overlays, OverlayView{Caption: caption, Start: w.Start, End: w.End})
	}

	return &Page{
		Theme:        in.Theme.Attr(),
		Tagline:      Tagline,
		AboutMe:      AboutMe,
		ContactIntro: ContactIntro,
		OwnerEmail:   in.OwnerEmail,
		Poster:       in.Hero.Poster,
		Overlays:     overlays,
		// json.Marshal escapes <, > and & so the manifest is safe inside a script tag.
		Manifest: template.JS(manifest),
		Work:     NewWorkView(in.Experiences),
		Projects: NewProjectsView(in.Projects),
	}, nil
}
