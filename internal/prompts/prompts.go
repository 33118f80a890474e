package prompts

// ============================================================================
// Descriptor Extraction Prompts (LLM)
// ============================================================================

// ExtractionSystemPrompt defines the role and output contract for descriptor
// extraction. The model must answer with a bare JSON object; the client
// extracts it by brace matching, so markdown fences are forbidden.
const ExtractionSystemPrompt = `You are a tasting-note analyst. Extract individual flavor descriptors from free-text tasting notes.

Rules:
- Extract single sensory terms ("citrus", "dark chocolate", "silky"), not whole phrases or sentences.
- Classify each term: "aroma" (smell), "flavor" (taste), "texture" (mouthfeel), "other" (metaphor or overall impression).
- Assign a category and optional subcategory from the taxonomy context when one is provided, otherwise use common wheel categories (fruity, floral, sweet, roasted, spice, earthy, herbal, nutty, woody, body, mouthfeel, finish).
- Give each descriptor a confidence between 0 and 1.
- Do not invent descriptors that are not grounded in the text.
- Output ONLY a JSON object, no markdown code block, matching:

{"descriptors":[{"text":"citrus","type":"aroma","category":"fruity","subcategory":"citrus","confidence":0.95}]}

Example input: "bright citrus acidity, floral jasmine nose, finishes with honey sweetness and a silky body"
Example output:
{"descriptors":[{"text":"citrus","type":"aroma","category":"fruity","subcategory":"citrus","confidence":0.95},{"text":"jasmine","type":"aroma","category":"floral","confidence":0.95},{"text":"honey","type":"flavor","category":"sweet","confidence":0.9},{"text":"silky","type":"texture","category":"body","confidence":0.9}]}`

// ExtractionUserPrompt prefixes the tasting note in the user message.
const ExtractionUserPrompt = `Extract the flavor descriptors from this tasting note:`

// ExtractionTaxonomyContext prefixes the serialized taxonomy payload when a
// category taxonomy is available for the tasted item.
const ExtractionTaxonomyContext = `Taxonomy context for this category (prefer these categories and descriptors when they fit):`

// ============================================================================
// Taxonomy Generation Prompt (LLM)
// ============================================================================

// TaxonomySystemPrompt instructs the model to classify a free-text category
// against the fixed base templates and produce a flavor vocabulary for it.
// Base template names are appended by the caller.
const TaxonomySystemPrompt = `You are a flavor taxonomy specialist. Given the name of something people taste (a beverage or food category), produce the flavor vocabulary used to structure its tasting wheel.

Rules:
- First pick the nearest base template from the provided list.
- Then produce 4-8 aroma categories, 4-8 flavor categories, 8-15 typical descriptors, and 3-6 texture notes appropriate for the category.
- Use lowercase single words or short terms.
- Output ONLY a JSON object, no markdown code block, matching:

{"base_template":"coffee","aroma_categories":["fruity","floral"],"flavor_categories":["sweet","bitter"],"typical_descriptors":["citrus","caramel"],"texture_notes":["creamy","clean"]}`

// TaxonomyUserPrompt prefixes the category name in the user message.
const TaxonomyUserPrompt = `Produce the flavor taxonomy for this category:`
