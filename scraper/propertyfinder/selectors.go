package propertyfinder

// CSS selectors that make up the page's markup contract.
// Centralising them makes future updates trivial.
const (
	// Search results page
	SelectorCard  = `[data-testid="property-card"]`
	SelectorPrice = `[data-testid="property-price"]`
	SelectorTitle = `[data-testid="property-title"]`
	SelectorArea  = `[data-testid="property-area"]`
	SelectorBeds  = `[data-testid="property-beds"]`
	SelectorBaths = `[data-testid="property-baths"]`

	// Within a card
	SelectorLink  = `a`
	SelectorImage = `img`

	// Pagination
	SelectorNextPage = `[data-testid="pagination-next"]`
)
