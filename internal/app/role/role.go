package role

// Role описывает требуемую возможность пользователя для доступа к маршруту.
// Это не взаимоисключающие роли: у пользователя могут быть обе
type Role int

const (
	Buyer Role = iota
	Seller
)

func (r Role) String() string {
	switch r {
	case Buyer:
		return "buyer"
	case Seller:
		return "seller"
	}
	return "unknown"
}
