package cmd

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"beercomi.dev/BeerComi/configs"
	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/model"
	"beercomi.dev/BeerComi/pkg/repository"
)

type SeedCmd struct {
	ConfigFile string `default:".BeerComi.toml" help:"Path to config file" short:"c"`
	Users      int    `default:"50"             help:"Number of users to generate"`
	Breweries  int    `default:"100"            help:"Number of breweries to generate"`
	BeersEach  int    `default:"20"             help:"Beers per brewery"`
	Reviews    int    `default:"6"              help:"Reviews per user"`
}

// Run wipes the content tables and refills them with generated data.
// Review targets are drawn without repeats per user so the one review
// per user and beer constraint holds.
func (s *SeedCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Fatal("error connecting to database")
	}
	defer repo.Close()

	if err = s.truncate(repo); err != nil {
		return err
	}

	faker := gofakeit.New(0)

	users, err := s.seedUsers(repo, faker)
	if err != nil {
		return err
	}

	beers, err := s.seedBreweriesAndBeers(repo, faker, users)
	if err != nil {
		return err
	}

	if err = s.seedReviews(repo, faker, users, beers); err != nil {
		return err
	}

	logger.Info("seeding complete",
		zap.Int("users", len(users)),
		zap.Int("beers", len(beers)))

	return nil
}

func (s *SeedCmd) truncate(repo *repository.Repository) error {
	tables := []string{
		"activity_log", "beers_favorites", "breweries_favorites",
		"store_menus", "stores", "review_photos", "beer_reviews",
		"beers", "breweries", "users",
	}

	for _, table := range tables {
		statement := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)
		if err := repo.DB.Exec(statement).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *SeedCmd) seedUsers(repo *repository.Repository, faker *gofakeit.Faker) ([]model.User, error) {
	hash, err := auth.HashPassword("password1234")
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, s.Users)

	for i := 0; i < s.Users; i++ {
		users = append(users, model.User{
			Email:           fmt.Sprintf("%d.%s", i, faker.Email()),
			Password:        hash,
			DisplayName:     fmt.Sprintf("%s%d", faker.Username(), i),
			Role:            model.RoleBasic,
			PresentLocation: faker.City(),
			Introduction:    faker.Sentence(12),
		})
	}

	users[0].Role = model.RoleAdmin

	if err = repo.DB.Create(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *SeedCmd) seedBreweriesAndBeers(repo *repository.Repository, faker *gofakeit.Faker, users []model.User) ([]model.Beer, error) {
	styles := []string{"IPA", "Pale Ale", "Stout", "Porter", "Pilsner", "Saison", "Sour", "Lager", "Wheat"}
	colors := []string{"Straw", "Gold", "Amber", "Copper", "Brown", "Black"}

	beers := make([]model.Beer, 0, s.Breweries*s.BeersEach)

	for i := 0; i < s.Breweries; i++ {
		brewery := model.Brewery{
			Name:           fmt.Sprintf("%s Brewing %d", faker.LastName(), i),
			Location:       faker.City(),
			DateOfFounding: fmt.Sprintf("%d", faker.Year()),
			AuthorID:       users[faker.IntRange(0, len(users)-1)].ID,
		}

		if err := repo.DB.Create(&brewery).Error; err != nil {
			return nil, err
		}

		batch := make([]model.Beer, 0, s.BeersEach)

		for j := 0; j < s.BeersEach; j++ {
			batch = append(batch, model.Beer{
				Name:        fmt.Sprintf("%s %s %d-%d", faker.AdjectiveDescriptive(), faker.NounConcrete(), i, j),
				BreweryID:   brewery.ID,
				Description: faker.Sentence(16),
				Style:       styles[faker.IntRange(0, len(styles)-1)],
				IBU:         faker.IntRange(5, 120),
				ABV:         model.ABVFromFloat(faker.Float64Range(3.0, 14.0)),
				Color:       colors[faker.IntRange(0, len(colors)-1)],
				AuthorID:    users[faker.IntRange(0, len(users)-1)].ID,
			})
		}

		if err := repo.DB.Create(&batch).Error; err != nil {
			return nil, err
		}

		beers = append(beers, batch...)
	}

	return beers, nil
}

func (s *SeedCmd) seedReviews(repo *repository.Repository, faker *gofakeit.Faker, users []model.User, beers []model.Beer) error {
	for _, user := range users {
		picked := make(map[int]struct{}, s.Reviews)
		reviews := make([]model.Review, 0, s.Reviews)

		for len(reviews) < s.Reviews && len(picked) < len(beers) {
			index := faker.IntRange(0, len(beers)-1)
			if _, done := picked[index]; done {
				continue
			}

			picked[index] = struct{}{}

			reviews = append(reviews, model.Review{
				AuthorID: user.ID,
				BeerID:   beers[index].ID,
				Rating:   faker.IntRange(1, 5),
				Review:   faker.Sentence(20),
			})
		}

		if err := repo.DB.Create(&reviews).Error; err != nil {
			return err
		}
	}

	return nil
}
