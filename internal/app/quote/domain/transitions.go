package domain

type move struct {
	from   Status
	side   Side
	action Action
}

// transitions is the complete negotiation table. Anything absent is invalid.
// Admin rejection is handled separately since it applies to every open state.
var transitions = map[move]Status{
	{StatusPending, SideSupplier, ActionCounter}: StatusSupplierCounter,
	{StatusPending, SideSupplier, ActionAccept}:  StatusSupplierAccept,
	{StatusPending, SideSupplier, ActionReject}:  StatusRejected,
	{StatusPending, SideBuyer, ActionCancel}:     StatusBuyerCancel,

	{StatusSupplierCounter, SideBuyer, ActionAccept}:     StatusBuyerAccept,
	{StatusSupplierCounter, SideBuyer, ActionReject}:     StatusRejected,
	{StatusSupplierCounter, SideSupplier, ActionCounter}: StatusSupplierCounter,
	{StatusSupplierCounter, SideSupplier, ActionReject}:  StatusRejected,

	{StatusSupplierAccept, SideBuyer, ActionAccept}: StatusBuyerAccept,
	{StatusSupplierAccept, SideBuyer, ActionReject}: StatusRejected,

	{StatusBuyerAccept, SideSupplier, ActionConvert}: StatusConverted,
}

// NextStatus returns the status reached when side performs action from the
// current status, and false when the table forbids it.
func NextStatus(from Status, side Side, action Action) (Status, bool) {
	if from.IsTerminal() {
		return "", false
	}
	if side == SideAdmin {
		if action == ActionReject {
			return StatusRejected, true
		}
		return "", false
	}
	to, ok := transitions[move{from, side, action}]
	return to, ok
}
