package server

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/standardbeagle/lexicore/internal/types"
)

// computeETag hashes the corpus vocabulary hash together with the query
// and its parameters, so the tag changes iff the response could.
func computeETag(corpusHash uint64, params types.QueryParams) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%d|%s|%s|%d|%.4f|%s|", corpusHash, params.Query, params.Mode,
		params.MaxResults, params.MinScore, params.CorpusName)

	langs := make([]string, len(params.Languages))
	for i, l := range params.Languages {
		langs[i] = string(l)
	}
	sort.Strings(langs)
	for _, l := range langs {
		h.WriteString(l)
		h.WriteString(",")
	}

	return strconv.Quote(strconv.FormatUint(h.Sum64(), 16))
}
