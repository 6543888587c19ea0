package exosink

// envelopeType tags every outbound report so sinks can distinguish these
// documents from other traffic.
const envelopeType = "exometer_metric"

// Envelope is the wire shape of a single report. One is built per report
// call, serialized, and discarded.
type Envelope struct {
	Type string       `json:"type"`
	Body EnvelopeBody `json:"body"`
}

// EnvelopeBody carries the sample itself.
type EnvelopeBody struct {
	Name      string `json:"name"`
	Value     any    `json:"value"`
	Timestamp int64  `json:"timestamp"`
	Host      string `json:"host"`
	Instance  string `json:"instance"`
}

// newEnvelope assembles an Envelope for a formatted metric name and datapoint.
func newEnvelope(name string, value any, timestamp int64, host, datapoint string) Envelope {
	return Envelope{
		Type: envelopeType,
		Body: EnvelopeBody{
			Name:      name,
			Value:     value,
			Timestamp: timestamp,
			Host:      host,
			Instance:  datapoint,
		},
	}
}
