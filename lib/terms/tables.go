// Copyright 2026 Dhanush Mallu
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package terms holds the curated polymer-science term tables and the text
// cleanup, normalization, and context-detection helpers built on them.
package terms

// CanonicalPolymers maps trade names and expanded polymer names to their
// canonical abbreviations.
var CanonicalPolymers = map[string]string{
	"Teflon":                       "PTFE",
	"Polytetrafluoroethylene":      "PTFE",
	"Lexan":                        "PC",
	"Polycarbonate":                "PC",
	"Plexiglas":                    "PMMA",
	"Poly(methyl methacrylate)":    "PMMA",
	"Polymethyl methacrylate":      "PMMA",
	"Mylar":                        "PET",
	"Polyethylene terephthalate":   "PET",
	"Poly(ethylene terephthalate)": "PET",
	"Polyethylene glycol":          "PEG",
	"Polyvinyl chloride":           "PVC",
	"Polystyrene":                  "PS",
	"Polyurethane":                 "PU",
	"Polyethylene":                 "PE",
	"Polypropylene":                "PP",
	"Poly(lactic acid)":            "PLA",
	"Polylactic acid":              "PLA",
	"Polycaprolactone":             "PCL",
	"Polyvinyl alcohol":            "PVA",
	"Polydimethylsiloxane":         "PDMS",
}

// CanonicalProperties maps property-name variants to a canonical form.
var CanonicalProperties = map[string]string{
	"glass temp":                   "glass transition temperature",
	"Tg":                           "glass transition temperature",
	"glass transition temp":        "glass transition temperature",
	"glass transition":             "glass transition temperature",
	"melting point":                "melting temperature",
	"Tm":                           "melting temperature",
	"modulus of elasticity":        "Young's modulus",
	"elastic modulus":              "Young's modulus",
	"tensile strength":             "ultimate tensile strength",
	"yield strength":               "yield stress",
	"thermal conductivity":         "thermal conductivity",
	"electrical conductivity":      "electrical conductivity",
	"degradation temp":             "degradation temperature",
	"Td":                           "degradation temperature",
	"specific heat":                "specific heat capacity",
	"refractive index":             "refractive index",
	"dielectric constant":          "dielectric constant",
	"water vapor permeability":     "water vapor transmission rate",
	"oxygen index":                 "limiting oxygen index",
	"crystallinity degree":         "degree of crystallinity",
	"molecular weight":             "molar mass",
	"number average molar mass":    "Mn",
	"weight average molar mass":    "Mw",
	"polydispersity":               "dispersity",
	"elongation":                   "elongation at break",
	"impact resistance":            "impact strength",
	"storage modulus":              "storage modulus",
	"loss modulus":                 "loss modulus",
	"contact angle":                "water contact angle",
	"heat deflection temperature":  "heat distortion temperature",
	"coefficient of expansion":     "coefficient of thermal expansion",
	"gas permeability coefficient": "gas permeability",
}

// PolymerNames lists common polymer names and abbreviations used by the
// gazetteer tagger and the entity-density estimator.
var PolymerNames = []string{
	"PMMA", "PET", "PTFE", "PC", "PS", "PE", "PP", "PVC", "PVA", "PU",
	"PLA", "PCL", "PEG", "PDMS", "PEEK", "PEF", "PHB", "PHA", "PBS", "PBAT",
	"polyethylene", "polypropylene", "polystyrene", "polycarbonate",
	"polyurethane", "polytetrafluoroethylene", "polycaprolactone",
	"poly(methyl methacrylate)", "poly(lactic acid)", "polylactic acid",
	"poly(ethylene terephthalate)", "polyethylene terephthalate",
	"poly(ethylene glycol)", "polyethylene glycol", "polyvinyl chloride",
	"polyvinyl alcohol", "polydimethylsiloxane", "polyamide", "nylon",
	"polyimide", "polyester", "epoxy", "epoxy resin", "vitrimer",
	"polyhydroxybutyrate", "polyhydroxyalkanoate", "polybutylene succinate",
	"chitosan", "cellulose", "starch", "alginate", "gelatin", "collagen",
	"lignin", "zein", "polyether ether ketone", "polyaniline", "polypyrrole",
	"polythiophene", "polyacrylonitrile", "polybutadiene", "polyisoprene",
	"natural rubber", "silicone", "aramid", "kevlar", "copolymer",
	"terpolymer", "block copolymer", "polymer blend", "bio-based polyamide",
	"poly(ethylene furanoate)", "sulfonated polyether ether ketone",
}

// PropertyNames lists property names recognized by the gazetteer tagger.
var PropertyNames = []string{
	"glass transition temperature", "melting temperature",
	"degradation temperature", "crystallization temperature",
	"heat capacity", "specific heat capacity", "thermal conductivity",
	"thermal stability", "coefficient of thermal expansion",
	"Young's modulus", "elastic modulus", "storage modulus", "loss modulus",
	"tensile strength", "ultimate tensile strength", "yield stress",
	"yield strength", "elongation at break", "impact strength",
	"flexural modulus", "flexural strength", "hardness", "toughness",
	"fracture toughness", "creep resistance", "fatigue resistance",
	"density", "viscosity", "melt flow index", "molar mass",
	"molecular weight", "dispersity", "degree of crystallinity",
	"refractive index", "dielectric constant", "band gap",
	"electrical conductivity", "ionic conductivity",
	"water contact angle", "water absorption", "water uptake",
	"gas permeability", "oxygen permeability", "water vapor transmission rate",
	"limiting oxygen index", "biodegradation rate", "bio-based content",
	"compostability", "swelling ratio", "gel fraction", "crosslink density",
}

// ScientificUnits lists measurement-unit surface forms.
var ScientificUnits = []string{
	"K", "°C", "deg C", "degC", "Kelvin", "°C/min", "K/min",
	"kJ/mol", "J/mol", "kcal/mol", "cal/mol", "eV",
	"J/g·K", "J/gK", "J·g⁻¹·K⁻¹", "J/kg·K",
	"MPa", "GPa", "Pa", "kPa", "N/mm²", "psi",
	"g/cm³", "g·cm⁻³", "kg/m³", "g/mL", "kg/L",
	"s", "min", "h", "hr", "ms", "s⁻¹", "Hz", "kHz", "MHz", "rad/s",
	"barrer", "cm²/s", "m²/s",
	"mol/L", "mmol/L", "M", "mM", "mol/m³",
	"nm", "μm", "mm", "cm", "m", "Å",
	"g/mol", "kg/mol", "kDa", "Da",
	"wt%", "mol%", "vol%", "%", "ppm", "phr",
	"S/cm", "S/m", "mS/cm",
	"N", "kN", "mN", "J", "kJ", "mJ", "W/m·K", "W/mK",
	"Pa·s", "mPa·s", "cP", "poise",
	"V", "mV", "kV", "A", "mA", "Ω", "F/g", "mAh/g",
}

// GreekLetters lists Greek letters and their named variants, recognized as
// SYMBOL candidates.
var GreekLetters = []string{
	"α", "β", "γ", "δ", "ε", "ζ", "η", "θ", "κ", "λ", "μ", "ν", "ξ",
	"π", "ρ", "σ", "τ", "φ", "χ", "ψ", "ω",
	"Δ", "Σ", "Θ", "Φ", "Ψ", "Ω", "Γ", "Λ", "Π",
	"alpha", "beta", "gamma", "delta", "epsilon", "eta", "theta",
	"kappa", "lambda", "sigma", "tau", "phi", "chi", "psi", "omega",
}

// SectionNames lists the section headings recognized in scientific documents.
var SectionNames = []string{
	"abstract", "summary", "overview", "introduction", "background",
	"motivation", "methods", "methodology", "experimental", "materials",
	"procedure", "synthesis", "characterization", "results", "findings",
	"data", "analysis", "observations", "discussion", "interpretation",
	"conclusion", "conclusions", "implications", "references",
	"acknowledgments", "supplementary",
}

// trailingSuffixes are non-canonical suffixes stripped from accepted entity
// text when the stripped form is itself a known term.
var trailingSuffixes = []string{" based", " derived", " containing", "-based", "-derived"}

// stopwords are stripped token-by-token from the end of accepted entity text.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true,
	"or": true, "with": true, "for": true, "in": true, "on": true,
	"at": true, "by": true, "to": true, "is": true, "was": true,
	"its": true, "as": true, "this": true, "that": true,
}
