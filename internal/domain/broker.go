package domain

// Broker is an order source system with its own orders table.
type Broker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Table string `json:"-"`
}

// Schema holds every broker orders table.
const Schema = "Orders"

// BrokerShoonya is the only wired broker.
var BrokerShoonya = Broker{ID: "shoonya", Name: "Shoonya", Table: "shoonya_orders"}

// Brokers lists the available brokers. The first entry is the default.
var Brokers = []Broker{BrokerShoonya}

// LookupBroker resolves a broker id.
// Empty and unknown ids resolve to the default broker.
func LookupBroker(id string) Broker {
	for _, b := range Brokers {
		if b.ID == id {
			return b
		}
	}
	return Brokers[0]
}
