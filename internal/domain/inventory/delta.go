package inventory

import "github.com/jhoicas/inventario-admin/internal/domain/entity"

// ApplyDelta devuelve el stock resultante de aplicar un movimiento (servicio de dominio).
//
//	entrada: stock + cantidad
//	salida:  stock - cantidad
//	ajuste:  cantidad (valor absoluto, no delta)
func ApplyDelta(stock int64, t entity.MovementType, quantity int64) int64 {
	switch t {
	case entity.MovementTypeEntry:
		return stock + quantity
	case entity.MovementTypeExit:
		return stock - quantity
	case entity.MovementTypeAdjustment:
		return quantity
	}
	return stock
}

// ReverseDelta deshace el efecto de m sobre stock.
//
// Un ajuste no guarda el valor previo en su cantidad, así que por defecto revertirlo no
// cambia el stock. Con exactAdjustment se resta el efecto registrado en la foto
// StockAfter-StockBefore del movimiento.
func ReverseDelta(stock int64, m *entity.Movement, exactAdjustment bool) int64 {
	switch m.Type {
	case entity.MovementTypeEntry:
		return stock - m.Quantity
	case entity.MovementTypeExit:
		return stock + m.Quantity
	case entity.MovementTypeAdjustment:
		if exactAdjustment {
			return stock - (m.StockAfter - m.StockBefore)
		}
	}
	return stock
}

// CheckExit verifica que una salida de quantity sea posible con el stock dado.
func CheckExit(stock int64, t entity.MovementType, quantity int64) bool {
	return t != entity.MovementTypeExit || stock >= quantity
}
