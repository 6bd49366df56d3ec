package domain

// FlightRecord is one booking row from the flights dataset.
type FlightRecord struct {
	Airline         string  `json:"airline"`
	FlightNumber    string  `json:"flight"`
	SourceCity      string  `json:"source_city"`
	DepartureTime   string  `json:"departure_time"`
	Stops           string  `json:"stops"`
	ArrivalTime     string  `json:"arrival_time"`
	DestinationCity string  `json:"destination_city"`
	Class           string  `json:"class"`
	Duration        float64 `json:"duration"`
	DaysLeft        int     `json:"days_left"`
	Price           float64 `json:"price"`
}

// Table is an ordered sequence of flight records. Positional order is the only
// identity a row has, so every operation over a Table must preserve it.
type Table []FlightRecord

// Field names a logical column of the dataset. Loaders map fields to whatever
// header spelling the source uses; everything downstream speaks in fields.
type Field string

const (
	FieldAirline         Field = "airline"
	FieldFlightNumber    Field = "flight"
	FieldSourceCity      Field = "source_city"
	FieldDepartureTime   Field = "departure_time"
	FieldStops           Field = "stops"
	FieldArrivalTime     Field = "arrival_time"
	FieldDestinationCity Field = "destination_city"
	FieldClass           Field = "class"
	FieldDuration        Field = "duration"
	FieldDaysLeft        Field = "days_left"
	FieldPrice           Field = "price"
)

// Fields lists every logical column in dataset order.
var Fields = []Field{
	FieldAirline,
	FieldFlightNumber,
	FieldSourceCity,
	FieldDepartureTime,
	FieldStops,
	FieldArrivalTime,
	FieldDestinationCity,
	FieldClass,
	FieldDuration,
	FieldDaysLeft,
	FieldPrice,
}

// Categorical returns the string value of f for r. ok is false when f is a
// numeric field or unknown.
func (r FlightRecord) Categorical(f Field) (string, bool) {
	switch f {
	case FieldAirline:
		return r.Airline, true
	case FieldFlightNumber:
		return r.FlightNumber, true
	case FieldSourceCity:
		return r.SourceCity, true
	case FieldDepartureTime:
		return r.DepartureTime, true
	case FieldStops:
		return r.Stops, true
	case FieldArrivalTime:
		return r.ArrivalTime, true
	case FieldDestinationCity:
		return r.DestinationCity, true
	case FieldClass:
		return r.Class, true
	}
	return "", false
}

// Numeric returns the numeric value of f for r. ok is false when f is a
// categorical field or unknown.
func (r FlightRecord) Numeric(f Field) (float64, bool) {
	switch f {
	case FieldDuration:
		return r.Duration, true
	case FieldDaysLeft:
		return float64(r.DaysLeft), true
	case FieldPrice:
		return r.Price, true
	}
	return 0, false
}
