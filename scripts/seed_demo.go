// seed_demo.go — standalone script to seed a demo House of Quality via the HOQ API.
//
// Usage:
//
//	go run scripts/seed_demo.go -api http://localhost:8700 -user demo
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type seedCustomer struct {
	Description string `json:"description"`
	Importance  int    `json:"importance"`
	Ratings     []int  `json:"ratings,omitempty"`
}

type seedTechnical struct {
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Target      string `json:"target,omitempty"`
	Difficulty  int    `json:"difficulty"`
}

type seedCell struct {
	customer  int
	technical int
	strength  int
}

type seedRoof struct {
	tech1       int
	tech2       int
	correlation int
}

var customers = []seedCustomer{
	{Description: "boils water quickly", Importance: 5, Ratings: []int{4, 3}},
	{Description: "safe to use", Importance: 5, Ratings: []int{3, 4}},
	{Description: "easy to pour without drips", Importance: 3, Ratings: []int{2, 4}},
	{Description: "easy to clean inside", Importance: 2, Ratings: []int{3, 3}},
	{Description: "light enough to lift full", Importance: 2, Ratings: []int{4, 2}},
}

var technicals = []seedTechnical{
	{Description: "heating element wattage", Unit: "W", Target: ">2400", Difficulty: 3},
	{Description: "auto shutoff delay", Unit: "s", Target: "<5", Difficulty: 2},
	{Description: "spout drip volume", Unit: "ml/pour", Target: "<0.5", Difficulty: 4},
	{Description: "interior surface roughness", Unit: "Ra um", Target: "<0.8", Difficulty: 3},
	{Description: "empty kettle mass", Unit: "g", Target: "<900", Difficulty: 2},
}

// Cells index into the slices above.
var cells = []seedCell{
	{0, 0, 9}, // quick boil needs wattage
	{0, 4, 1},
	{1, 1, 9}, // safety rides on the shutoff
	{1, 0, 3},
	{2, 2, 9},
	{2, 4, 3},
	{3, 3, 9},
	{4, 4, 9},
	{4, 0, 1},
}

var roof = []seedRoof{
	{0, 4, -1}, // bigger element weighs more
	{0, 1, 1},
	{2, 3, 1},
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "HOQ API base URL")
	userID := flag.String("user", "demo", "X-User-ID header value")
	dryRun := flag.Bool("dry-run", false, "print the house without posting")
	flag.Parse()

	if *dryRun {
		printHouse()
		return
	}

	c := &client{base: *apiURL, user: *userID, http: &http.Client{}}

	project := map[string]interface{}{
		"name":        "Electric Kettle Redesign",
		"description": "Demo House of Quality for the 1.7L cordless kettle",
		"competitors": []string{"Breville", "Zojirushi"},
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := c.post("/api/v1/projects", project, &created); err != nil {
		log.Fatalf("create project: %v", err)
	}
	log.Printf("created project %s", created.ID)
	base := "/api/v1/projects/" + created.ID

	customerIDs := make([]string, len(customers))
	for i, cr := range customers {
		var out struct {
			ID string `json:"id"`
		}
		if err := c.post(base+"/customer-requirements", cr, &out); err != nil {
			log.Fatalf("create customer requirement %q: %v", cr.Description, err)
		}
		customerIDs[i] = out.ID
	}
	log.Printf("created %d customer requirements", len(customerIDs))

	technicalIDs := make([]string, len(technicals))
	for i, tr := range technicals {
		var out struct {
			ID string `json:"id"`
		}
		if err := c.post(base+"/technical-requirements", tr, &out); err != nil {
			log.Fatalf("create technical requirement %q: %v", tr.Description, err)
		}
		technicalIDs[i] = out.ID
	}
	log.Printf("created %d technical requirements", len(technicalIDs))

	placed, skipped := 0, 0
	for _, cell := range cells {
		body := map[string]interface{}{
			"customer_requirement_id":  customerIDs[cell.customer],
			"technical_requirement_id": technicalIDs[cell.technical],
			"strength":                 cell.strength,
		}
		if err := c.put(base+"/relationships", body); err != nil {
			log.Printf("skip cell (%d,%d): %v", cell.customer, cell.technical, err)
			skipped++
			continue
		}
		placed++
	}
	log.Printf("relationships: %d placed, %d skipped", placed, skipped)

	placed, skipped = 0, 0
	for _, r := range roof {
		body := map[string]interface{}{
			"requirement1_id": technicalIDs[r.tech1],
			"requirement2_id": technicalIDs[r.tech2],
			"correlation":     r.correlation,
		}
		if err := c.put(base+"/correlations", body); err != nil {
			log.Printf("skip roof (%d,%d): %v", r.tech1, r.tech2, err)
			skipped++
			continue
		}
		placed++
	}
	log.Printf("correlations: %d placed, %d skipped", placed, skipped)

	var analysis struct {
		Priorities []struct {
			Description    string  `json:"description"`
			Score          int     `json:"score"`
			RelativeWeight float64 `json:"relative_weight"`
		} `json:"priorities"`
	}
	if err := c.get(base+"/analysis", &analysis); err != nil {
		log.Fatalf("fetch analysis: %v", err)
	}
	log.Printf("analysis ready:")
	for _, p := range analysis.Priorities {
		log.Printf("  %-28s score=%3d weight=%5.1f%%", p.Description, p.Score, p.RelativeWeight)
	}
}

func printHouse() {
	fmt.Println("Electric Kettle Redesign")
	fmt.Println("\ncustomer requirements:")
	for i, cr := range customers {
		fmt.Printf("  [%d] %-28s importance=%d ratings=%v\n", i, cr.Description, cr.Importance, cr.Ratings)
	}
	fmt.Println("\ntechnical requirements:")
	for i, tr := range technicals {
		fmt.Printf("  [%d] %-28s %s %s difficulty=%d\n", i, tr.Description, tr.Unit, tr.Target, tr.Difficulty)
	}
	fmt.Println("\nrelationships:")
	for _, cell := range cells {
		fmt.Printf("  %s x %s = %d\n", customers[cell.customer].Description, technicals[cell.technical].Description, cell.strength)
	}
	fmt.Println("\ncorrelations:")
	for _, r := range roof {
		fmt.Printf("  %s x %s = %+d\n", technicals[r.tech1].Description, technicals[r.tech2].Description, r.correlation)
	}
}

type client struct {
	base string
	user string
	http *http.Client
}

func (c *client) post(path string, body, out interface{}) error {
	return c.send("POST", path, body, out, http.StatusCreated)
}

func (c *client) put(path string, body interface{}) error {
	return c.send("PUT", path, body, nil, http.StatusOK)
}

func (c *client) get(path string, out interface{}) error {
	return c.send("GET", path, nil, out, http.StatusOK)
}

func (c *client) send(method, path string, body, out interface{}, want int) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", c.user)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
