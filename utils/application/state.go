package application

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fundingdesk/ocr-underwriting/utils"
)

var usStates = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire",
	"NJ": "New Jersey", "NM": "New Mexico", "NY": "New York", "NC": "North Carolina",
	"ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania",
	"RI": "Rhode Island", "SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee",
	"TX": "Texas", "UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
	"PR": "Puerto Rico",
}

// Full names in a fixed order so name scanning is deterministic when a window
// mentions more than one state.
var stateNamesOrdered = buildStateNamesOrdered()

type stateName struct {
	upper string
	abbr  string
}

func buildStateNamesOrdered() []stateName {
	abbrs := []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN",
		"IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV",
		"NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN",
		"TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY", "DC", "PR",
	}
	out := make([]stateName, 0, len(abbrs))
	for _, a := range abbrs {
		out = append(out, stateName{upper: strings.ToUpper(usStates[a]), abbr: a})
	}
	return out
}

// ZIP3 prefix to state. Ranges overlap in places; later assignments win,
// matching the curation order the table was built in.
var zip3ToState = buildZip3Table()

func buildZip3Table() map[int]string {
	m := make(map[int]string, 1000)
	set := func(lo, hi int, abbr string) {
		for z := lo; z < hi; z++ {
			m[z] = abbr
		}
	}
	set(350, 370, "AL")
	set(995, 1000, "AK")
	set(850, 866, "AZ")
	set(716, 730, "AR")
	set(900, 962, "CA")
	set(800, 816, "CO")
	set(600, 700, "CT")
	set(200, 207, "DC")
	set(197, 200, "DE")
	set(320, 350, "FL")
	set(300, 321, "GA")
	set(967, 969, "HI")
	set(500, 528, "IA")
	set(832, 839, "ID")
	set(600, 630, "IL")
	set(460, 480, "IN")
	set(660, 680, "KS")
	set(400, 428, "KY")
	set(700, 716, "LA")
	set(100, 280, "MA")
	set(206, 220, "MD")
	set(390, 400, "ME")
	set(480, 500, "MI")
	set(550, 568, "MN")
	set(630, 660, "MO")
	set(386, 400, "MS")
	set(590, 600, "MT")
	set(270, 290, "NC")
	set(580, 590, "ND")
	set(680, 700, "NE")
	set(300, 400, "NH")
	set(700, 900, "NJ")
	set(870, 885, "NM")
	set(889, 900, "NV")
	set(100, 150, "NY")
	set(430, 460, "OH")
	set(730, 750, "OK")
	set(970, 980, "OR")
	set(150, 200, "PA")
	set(6, 10, "PR")
	set(280, 291, "RI")
	set(290, 300, "SC")
	set(570, 578, "SD")
	set(370, 386, "TN")
	set(750, 800, "TX")
	set(840, 850, "UT")
	set(220, 247, "VA")
	set(50, 60, "VT")
	set(980, 994, "WA")
	set(530, 550, "WI")
	set(247, 269, "WV")
	set(820, 832, "WY")
	return m
}

var (
	cityStateZipRe = regexp.MustCompile(`\b([A-Za-z][A-Za-z.\- ]+),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)\b`)
	zip5Re         = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	streetRe       = regexp.MustCompile(`^\s*(\d{1,6})\s+([A-Za-z0-9.\-# ]+)`)
	twoLetterRe    = regexp.MustCompile(`\b[A-Z]{2}\b`)
)

// Lines starting a new form section end an address block.
var addressBlockStops = []string{
	"industry", "ein", "ssn", "dob", "owner", "date", "application",
	"business legal name", "business name", "company name",
}

// ZipToState resolves a ZIP5 (or ZIP+4) to a state via the 3-digit prefix
// table. Empty when the prefix is unassigned.
func ZipToState(s string) string {
	m := zip5Re.FindString(s)
	if m == "" {
		return ""
	}
	z3, err := strconv.Atoi(m[:3])
	if err != nil {
		return ""
	}
	return zip3ToState[z3]
}

// collectAddressBlocks stitches up to maxBlockLines consecutive lines starting
// at an address anchor or a leading street-number line, stopping at form
// section headers. Scanned forms often break one address across lines.
func collectAddressBlocks(lines []string, maxBlockLines int) []string {
	var blocks []string
	for i := 0; i < len(lines); {
		ln := lines[i]
		low := strings.ToLower(ln)
		if !strings.Contains(low, "address") && !streetRe.MatchString(ln) {
			i++
			continue
		}
		block := []string{ln}
		j := i + 1
		for j < len(lines) && len(block) < maxBlockLines {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				break
			}
			lowNext := strings.ToLower(next)
			stop := false
			for _, tok := range addressBlockStops {
				if strings.Contains(lowNext, tok) {
					stop = true
					break
				}
			}
			if stop {
				break
			}
			block = append(block, next)
			j++
		}
		blocks = append(blocks, strings.Join(block, " | "))
		i = j
	}
	return blocks
}

// ResolveState applies the layered state resolution over a window, falling
// back to stitched address blocks across the whole document. Layers, in
// order: City, ST ZIP; full state name; ZIP3 prefix; the same three over
// address blocks; and last, a bare 2-letter token but only when the window
// mentions "address". First success wins, so City, ST ZIP always beats a
// stray 2-letter token.
func ResolveState(allLines []string, window string) (abbr, evidence string) {
	if m := cityStateZipRe.FindStringSubmatch(window); m != nil {
		if _, ok := usStates[m[2]]; ok {
			return m[2], "[city,st,zip] " + window
		}
	}

	up := " " + strings.ToUpper(window) + " "
	for _, sn := range stateNamesOrdered {
		if strings.Contains(up, " "+sn.upper+" ") {
			return sn.abbr, "[state-name] " + window
		}
	}

	if z := zip5Re.FindString(window); z != "" {
		if st := ZipToState(z); st != "" {
			return st, "[zip-only->" + st + "] " + window
		}
	}

	for _, block := range collectAddressBlocks(allLines, 4) {
		if m := cityStateZipRe.FindStringSubmatch(block); m != nil {
			if _, ok := usStates[m[2]]; ok {
				return m[2], "[block city,st,zip] " + block
			}
		}
		upb := " " + strings.ToUpper(block) + " "
		for _, sn := range stateNamesOrdered {
			if strings.Contains(upb, " "+sn.upper+" ") {
				return sn.abbr, "[block state-name] " + block
			}
		}
		if z := zip5Re.FindString(block); z != "" {
			if st := ZipToState(z); st != "" {
				return st, "[block zip-only->" + st + "] " + block
			}
		}
	}

	if strings.Contains(strings.ToLower(window), "address") {
		for _, tok := range twoLetterRe.FindAllString(window, -1) {
			if _, ok := usStates[tok]; ok {
				return tok, "[address token] " + window
			}
		}
	}

	return "", ""
}

// StateExtractor adapts ResolveState to the resolver's ExtractFunc shape,
// closing over the full line list for the address-block fallback.
func StateExtractor(allLines []string) utils.ExtractFunc {
	return func(window string) string {
		abbr, _ := ResolveState(allLines, window)
		return abbr
	}
}
