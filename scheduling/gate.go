package scheduling

// CanDeleteProject reports whether a customer may delete their own
// modification request. Deletion is allowed only while the request is still
// pending and the admin has not committed a budget; once an approved cost is
// set the decision belongs to the admin, and declining the budget is expressed
// through the admin decision flow instead.
func CanDeleteProject(status string, approvedCost *float64) bool {
	return status == "pending" && approvedCost == nil
}
