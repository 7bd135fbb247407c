package llm

var ParseRetryAfter = parseRetryAfter
