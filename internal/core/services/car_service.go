package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/carmarket/internal/core/access"
	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

type carService struct {
	pool ports.Pool
}

func NewCarService(pool ports.Pool) ports.CarService {
	return &carService{
		pool: pool,
	}
}

func (s *carService) List(ctx context.Context) ([]domain.Car, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	cars, err := sess.Cars().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, nil
}

func (s *carService) Get(ctx context.Context, id int64) (*domain.Car, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	return findCar(ctx, sess.Cars(), id)
}

func (s *carService) Create(ctx context.Context, who domain.Identity, car *domain.Car) (*domain.Car, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	car.UserID = who.UserID
	if err := sess.Cars().Create(ctx, car); err != nil {
		if errors.Is(err, domain.ErrInvalidReference) {
			return nil, domain.NotFound("User Not Found!")
		}
		return nil, err
	}
	return car, nil
}

func (s *carService) Update(ctx context.Context, who domain.Identity, id int64, conds []query.Condition) (*domain.Car, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	cars := sess.Cars()
	if _, err := ownedCar(ctx, cars, who, id); err != nil {
		return nil, err
	}

	car, err := cars.Update(ctx, id, conds)
	if err != nil {
		return nil, carError(err)
	}
	return car, nil
}

func (s *carService) Delete(ctx context.Context, who domain.Identity, id int64) (*domain.Car, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	cars := sess.Cars()
	if _, err := ownedCar(ctx, cars, who, id); err != nil {
		return nil, err
	}

	car, err := cars.Delete(ctx, id)
	if err != nil {
		return nil, carError(err)
	}
	return car, nil
}

// Search reports not-found when nothing matches instead of returning an
// empty list; existing clients depend on the 404.
func (s *carService) Search(ctx context.Context, search query.Search) ([]domain.Car, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	cars, err := sess.Cars().Search(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search cars: %w", err)
	}
	if len(cars) == 0 {
		return nil, domain.NotFound("No Existing Match Found!")
	}
	return cars, nil
}

func (s *carService) ListByUser(ctx context.Context, who domain.Identity, userID int64) ([]domain.Car, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	if _, err := findUser(ctx, sess.Users(), userID); err != nil {
		return nil, err
	}
	if !access.CanMutate(userID, who) {
		return nil, domain.Forbidden("Forbidden!")
	}

	cars, err := sess.Cars().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user cars: %w", err)
	}
	if len(cars) == 0 {
		return nil, domain.NotFound("No Car Found For This User!")
	}
	return cars, nil
}

func findCar(ctx context.Context, cars ports.CarRepository, id int64) (*domain.Car, error) {
	car, err := cars.GetByID(ctx, id)
	if err != nil {
		return nil, carError(err)
	}
	return car, nil
}

// ownedCar loads the car and then checks the caller may change it, so a
// missing car is reported before a forbidden one.
func ownedCar(ctx context.Context, cars ports.CarRepository, who domain.Identity, id int64) (*domain.Car, error) {
	car, err := findCar(ctx, cars, id)
	if err != nil {
		return nil, err
	}
	if !access.CanMutate(car.UserID, who) {
		return nil, domain.Forbidden("Forbidden!")
	}
	return car, nil
}

func carError(err error) error {
	if errors.Is(err, domain.ErrCarNotFound) {
		return domain.NotFound("Car Not Found!")
	}
	return fmt.Errorf("failed to access car: %w", err)
}
