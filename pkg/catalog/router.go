package catalog

import (
	"sort"
	"strings"

	"iot-support-be/internal/entity"
)

// RouteKind tags the outcome of routing a query against the catalog.
type RouteKind int

const (
	// RouteNoMatch means the query is unrelated to any product.
	RouteNoMatch RouteKind = iota
	// RouteMatched means exactly one product stood out.
	RouteMatched
	// RouteAmbiguous means several products scored too close to pick one.
	RouteAmbiguous
	// RouteListing means the query asks for the whole catalog.
	RouteListing
	// RouteExit means the user asked to end the conversation.
	RouteExit
)

// RouteResult is the routing outcome. Product is set for RouteMatched;
// Candidates is set for RouteAmbiguous, ranked best-first.
type RouteResult struct {
	Kind       RouteKind
	Product    *entity.Product
	Candidates []*entity.Product
	Confidence float64
}

const (
	// defaultThreshold is the minimum combined score before a product is
	// considered related to the query at all.
	defaultThreshold = 0.1
	// defaultTolerance is the band below the top score within which a
	// runner-up forces an ambiguous result instead of a silent pick.
	defaultTolerance = 0.1

	exactMatchWeight = 0.7
	similarityWeight = 0.3
)

// listingPhrases marks catalog-enumeration requests that bypass routing.
var listingPhrases = []string{
	"list all products", "show all products", "what products", "available products",
	"all products", "product list", "what do you have", "what can you help with",
	"list products", "show products", "available iot", "iot products",
	"what products do you have", "show me all products", "what are your products",
	"list your products", "company products", "your products", "all your products",
	"senarai produk", "semua produk", "produk apa",
}

// exitCommands end the conversation outright. Matched as whole queries, not
// substrings, so "my camera stopped recording" is not an exit.
var exitCommands = []string{
	"exit", "quit", "end", "stop", "bye", "goodbye",
	"keluar", "tamat", "selamat tinggal",
}

// Router scores a free-text query against product keyword sets and picks a
// product, a candidate list, or nothing.
type Router struct {
	threshold float64
	tolerance float64
}

func NewRouter() *Router {
	return &Router{
		threshold: defaultThreshold,
		tolerance: defaultTolerance,
	}
}

// IsExitCommand reports whether the query is a request to end the chat.
func (r *Router) IsExitCommand(query string) bool {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryLower = strings.Trim(queryLower, ".!")
	for _, command := range exitCommands {
		if queryLower == command {
			return true
		}
	}
	return false
}

// IsListingRequest reports whether the query asks for the full catalog.
func (r *Router) IsListingRequest(query string) bool {
	queryLower := strings.ToLower(query)
	for _, phrase := range listingPhrases {
		if strings.Contains(queryLower, phrase) {
			return true
		}
	}
	return false
}

// Score combines the fraction of keywords found verbatim in the query with
// the best fuzzy ratio between the query and any single keyword. Exact hits
// dominate the blend.
func (r *Router) Score(query string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	queryLower := strings.ToLower(query)

	exactMatches := 0
	bestRatio := 0.0
	for _, keyword := range keywords {
		keywordLower := strings.ToLower(keyword)
		if strings.Contains(queryLower, keywordLower) {
			exactMatches++
		}
		if ratio := Ratio(queryLower, keywordLower); ratio > bestRatio {
			bestRatio = ratio
		}
	}

	exactScore := float64(exactMatches) / float64(len(keywords))
	return exactScore*exactMatchWeight + bestRatio*similarityWeight
}

// Route maps a query onto the catalog. Malformed or empty input never
// fails; it routes to no-match. Ties inside the tolerance band come back
// as ambiguous, ranked by score and then catalog position.
func (r *Router) Route(query string, products []*entity.Product) RouteResult {
	if strings.TrimSpace(query) == "" || len(products) == 0 {
		return RouteResult{Kind: RouteNoMatch}
	}

	if r.IsExitCommand(query) {
		return RouteResult{Kind: RouteExit, Confidence: 1.0}
	}

	if r.IsListingRequest(query) {
		return RouteResult{Kind: RouteListing, Confidence: 1.0}
	}

	type scored struct {
		product *entity.Product
		score   float64
	}

	var candidates []scored
	for _, product := range products {
		score := r.Score(query, product.Keywords)
		if score >= r.threshold {
			candidates = append(candidates, scored{product: product, score: score})
		}
	}

	if len(candidates) == 0 {
		return RouteResult{Kind: RouteNoMatch}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].product.Position < candidates[j].product.Position
	})

	top := candidates[0]

	var contenders []*entity.Product
	for _, c := range candidates {
		if top.score-c.score <= r.tolerance {
			contenders = append(contenders, c.product)
		}
	}

	if len(contenders) > 1 {
		return RouteResult{
			Kind:       RouteAmbiguous,
			Candidates: contenders,
			Confidence: top.score,
		}
	}

	return RouteResult{
		Kind:       RouteMatched,
		Product:    top.product,
		Confidence: top.score,
	}
}
