package service

const (
	// RateReductionStep is the fixed half-percentage-point ask applied on
	// every negotiation attempt.
	RateReductionStep = 0.005

	// TopOfferCount caps the ranked view returned after an evaluation.
	TopOfferCount = 3

	// low-randomness decoding keeps extraction reproducible
	interpreterTemperature = 0.1
	interpreterTopP        = 0.2
)

// extractionPrompt instructs the model to answer with nothing but a JSON
// object carrying the four loan request fields. The raw message is appended
// by the interpreter.
const extractionPrompt = `Extract the loan request details from the message below.
Respond with ONLY a JSON object containing exactly these keys:
"amount" (number), "duration" (integer, as stated by the user), "purpose" (string), "expected_income" (number, 0 if not mentioned).
Do not add any other text.

Example:
Message: "I need $50,000 for 12 months to buy equipment with expected income of $10,000"
Response: {"amount": 50000, "duration": 12, "purpose": "buy equipment", "expected_income": 10000}

Message: "%s"
Response:`
