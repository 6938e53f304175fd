package clock

import "time"

// Clock abstrai o relógio de parede para que regras dependentes de "agora"
// (ex: janela de apostas antes do início do evento) sejam testáveis
type Clock interface {
	Now() time.Time
}

// System usa o relógio real
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed devolve sempre o mesmo instante; usado em testes
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }
