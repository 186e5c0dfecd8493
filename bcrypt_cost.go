//go:build !race

package enroll

func passwordHashCost() int {
	return bcryptCost
}
