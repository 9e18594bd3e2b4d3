package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/middleware"
	"github.com/pawpal/pet_marketplace/models"
)

func GetMyProfile(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var user models.User
	if err := database.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateMyProfile(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	type Request struct {
		FullName *string `json:"full_name,omitempty"`
		Phone    *string `json:"phone,omitempty"`
		Address  *string `json:"address,omitempty"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(user)
}

type PetRequest struct {
	Name      string     `json:"name" validate:"required,min=1"`
	Species   string     `json:"species" validate:"required"`
	Breed     *string    `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

func GetMyPets(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var pets []models.Pet
	if err := database.DB.Where("owner_id = ?", session.UserID).Order("created_at asc").Find(&pets).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch pets"})
	}

	return c.JSON(pets)
}

func AddPet(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req PetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pet := models.Pet{
		OwnerID:   session.UserID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
	}
	if err := database.DB.Create(&pet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add pet"})
	}

	return c.Status(fiber.StatusCreated).JSON(pet)
}

func UpdatePet(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	petID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pet ID"})
	}

	var req PetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var pet models.Pet
	if err := database.DB.Where("id = ? AND owner_id = ?", petID, session.UserID).First(&pet).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pet not found"})
	}

	pet.Name = req.Name
	pet.Species = req.Species
	pet.Breed = req.Breed
	pet.BirthDate = req.BirthDate

	if err := database.DB.Save(&pet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update pet"})
	}

	return c.JSON(pet)
}

func DeletePet(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	petID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pet ID"})
	}

	result := database.DB.Where("id = ? AND owner_id = ?", petID, session.UserID).Delete(&models.Pet{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete pet"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pet not found"})
	}

	return c.JSON(fiber.Map{"message": "Pet deleted"})
}

func GetMyNotifications(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var notifs []models.Notification
	if err := database.DB.Where("user_id = ?", session.UserID).Order("created_at desc").Limit(50).Find(&notifs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(notifs)
}

func MarkNotificationRead(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notifID, session.UserID).
		Update("read_at", &now)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
