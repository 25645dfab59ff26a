package swaps

import (
	"sort"
	"strings"

	"github.com/klever-io/klv-swaps-go/swaps/stats"
)

// RankedQuote is one candidate of the top quote selection
type RankedQuote struct {
	AggregatorID string
	Fees         stats.TradeFees
}

// QuoteComparator returns a negative value if first ranks ahead of second, a positive value if second ranks
// ahead of first and zero if they rank the same
type QuoteComparator func(first RankedQuote, second RankedQuote) int

// DefaultQuoteComparator ranks the quotes by their overall value, the destination value net of the gas cost and fees,
// in descending order. Equal values are ordered by the aggregator identifier
func DefaultQuoteComparator(first RankedQuote, second RankedQuote) int {
	result := stats.Compare(second.Fees.OverallValueOfQuote, first.Fees.OverallValueOfQuote)
	if result != 0 {
		return result
	}

	return strings.Compare(first.AggregatorID, second.AggregatorID)
}

// RankTop returns the aggregator identifier of the best ranked quote. A nil comparator uses DefaultQuoteComparator
func RankTop(quotes []RankedQuote, comparator QuoteComparator) (string, error) {
	if len(quotes) == 0 {
		return "", ErrEmptyQuotes
	}
	if comparator == nil {
		comparator = DefaultQuoteComparator
	}

	sorted := make([]RankedQuote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return comparator(sorted[i], sorted[j]) < 0
	})

	return sorted[0].AggregatorID, nil
}

// RankedQuotesFromMap returns the ranking candidates of all the quotes holding computed fees, sorted by
// aggregator identifier
func RankedQuotesFromMap(quotes QuoteMap) []RankedQuote {
	ranked := make([]RankedQuote, 0, len(quotes))
	for aggregator, trade := range quotes {
		if trade == nil || trade.Fees == nil {
			continue
		}

		ranked = append(ranked, RankedQuote{
			AggregatorID: aggregator,
			Fees:         *trade.Fees,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].AggregatorID < ranked[j].AggregatorID
	})

	return ranked
}
