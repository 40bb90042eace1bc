package basebandsim

import "github.com/basebandsim/basebandsim/internal/dispatch"

// buildDispatchTable assembles the static (Matcher, Action) list every
// Instance dispatches AT command remainders against (§4.1). Order is
// significant: entries are matched first-hit, so a longer, more specific
// prefix must be listed ahead of any shorter prefix it would otherwise be
// shadowed by (e.g. "D*99" before the bare "D" dial prefix).
// entry is a local alias so the table literal below can stay readable.
type entry = dispatch.Entry[*Instance]

func buildDispatchTable() dispatch.Table[*Instance] {
	m := dispatch.MatchExact
	p := dispatch.MatchPrefix

	return dispatch.Table[*Instance]{
		// --- identification / no-op housekeeping ---
		entry{Matcher: m(""), Literal: "OK"},
		entry{Matcher: m("Z"), Literal: "OK"},
		entry{Matcher: p("E"), Literal: "OK"},
		entry{Matcher: p("&F"), Literal: "OK"},
		entry{Matcher: p("I"), Literal: "OK"},
		entry{Matcher: p("+CGMI"), Literal: literalCGMI},
		entry{Matcher: p("+CGMM"), Literal: literalCGMM},
		entry{Matcher: p("+CGMR"), Literal: literalCGMR},
		entry{Matcher: p("+CGSN"), Literal: "000000000000000"},
		entry{Matcher: p("+CIMI"), Literal: "310260000000000"},
		entry{Matcher: p("%CPHS"), Literal: "OK"},
		entry{Matcher: p("+CSMS="), Literal: "+CSMS: 1,1,1"},
		entry{Matcher: p("+CNMI="), Literal: "OK"},
		entry{Matcher: p("+CSCS="), Literal: "OK"},
		entry{Matcher: p("+CUSATT="), Handler: handleCUSATTSet},
		entry{Matcher: p("+CUSATE="), Handler: handleCUSATESet},

		// --- radio power / SIM ---
		entry{Matcher: p("+CFUN="), Handler: handleCFUNSet},
		entry{Matcher: m("+CFUN?"), Handler: handleCFUNGet},
		entry{Matcher: p("+CPIN="), Handler: handleCPINSet},
		entry{Matcher: m("+CPIN?"), Handler: handleCPINGet},
		entry{Matcher: p("+CPINR"), Handler: handleCPINR},
		entry{Matcher: p("+CRSM="), Handler: handleCRSM},

		// --- registration / operator selection ---
		entry{Matcher: p("+CREG="), Handler: handleCREGSet},
		entry{Matcher: m("+CREG?"), Handler: handleCREGGet},
		entry{Matcher: p("+CGREG="), Handler: handleCGREGSet},
		entry{Matcher: m("+CGREG?"), Handler: handleCGREGGet},
		entry{Matcher: m("+COPS=?"), Handler: handleCOPSTest},
		entry{Matcher: p("+COPS="), Handler: handleCOPSSet},
		entry{Matcher: m("+COPS?"), Handler: handleCOPSGet},
		entry{Matcher: p("+CSQ"), Handler: handleCSQ},

		// --- technology / CDMA ---
		entry{Matcher: m("+CTEC=?"), Handler: handleCTECTest},
		entry{Matcher: p("+CTEC="), Handler: handleCTECSet},
		entry{Matcher: m("+CTEC?"), Handler: handleCTECGet},
		entry{Matcher: p("+CCSS="), Handler: handleCCSSSet},
		entry{Matcher: m("+CCSS?"), Handler: handleCCSSGet},
		entry{Matcher: p("+WRMP="), Handler: handleWRMPSet},
		entry{Matcher: m("+WRMP?"), Handler: handleWRMPGet},
		entry{Matcher: m("+WSOS?"), Handler: handleWSOSGet},
		entry{Matcher: m("+WPRL?"), Handler: handleWPRLGet},

		// --- voice call control ---
		entry{Matcher: p("D*99"), Handler: handleDataCall},
		entry{Matcher: p("D"), Handler: handleDial},
		entry{Matcher: m("A"), Handler: handleAnswer},
		entry{Matcher: m("H"), Handler: handleHangupUser},
		entry{Matcher: p("+CHLD="), Handler: handleCHLD},
		entry{Matcher: p("+CLCC"), Handler: handleCLCC},
		entry{Matcher: p("+CEER"), Handler: handleCEER},

		// --- supplementary services ---
		entry{Matcher: p("+CCFC="), Handler: handleCCFCSet},
		entry{Matcher: p("+CLCK="), Handler: handleCLCKSet},
		entry{Matcher: p("+CPWD="), Handler: handleCPWDSet},

		// --- PDP data contexts ---
		entry{Matcher: p("+CGDCONT="), Handler: handleCGDCONTSet},
		entry{Matcher: m("+CGDCONT?"), Handler: handleCGDCONTGet},
		entry{Matcher: p("+CGACT="), Handler: handleCGACTSet},
		entry{Matcher: m("+CGACT?"), Handler: handleCGACTGet},
		entry{Matcher: p("+CGCONTRDP"), Handler: handleCGCONTRDP},

		// --- SMS submission ---
		entry{Matcher: p("+CMGS="), Handler: handleCMGSSet},
		entry{Matcher: p("+CSCA="), Handler: handleCSCASet},
		entry{Matcher: m("+CSCA?"), Handler: handleCSCAGet},
		entry{Matcher: p("+CMGF="), Handler: handleCMGFSet},
	}
}
