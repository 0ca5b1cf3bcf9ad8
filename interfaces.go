package genfair

import (
	"github.com/datar-psa/genfair/api"
)

type LLMGenerator = api.LLMGenerator
type Embedder = api.Embedder
type SentimentClassifier = api.SentimentClassifier
type SentimentResult = api.SentimentResult
type ToxicityProvider = api.ToxicityProvider
type AttributeScores = api.AttributeScores

var ToxicityAttributes = api.ToxicityAttributes
