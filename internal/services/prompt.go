package services

// CVExtractionPrompt is the fixed instruction sent alongside the CV
// document on every extraction call. The model is told to answer with bare
// JSON; the parser still tolerates fences and surrounding prose.
const CVExtractionPrompt = `You are an expert HR assistant. Your task is to extract key information from the
attached curriculum vitae (CV) file and return it as a valid JSON object.

Extract the following fields from the file:
- "name": The full name of the applicant.
- "email": The primary email address.
- "phone": The primary phone number.
- "linkedin": The applicant's LinkedIn profile URL.
- "degree": The applicant's highest or most relevant academic degree (e.g., "Bachelor's Degree in Cybersecurity").
- "skills": A list of professional skills. Each skill must be an object with three keys:
  - "type": The category of the skill (e.g., "Programming Languages", "Languages", "IT", "Soft Skills", "Marketing").
  - "skill": The name of the skill (e.g., "Python", "English", "Docker", "Teamwork").
  - "level": The proficiency level (e.g., "Beginner (15%)", "Elementary (25%)", "Intermediate (50%)", "Advanced (80%)", "Expert (100%)").

RULES:
1.  Return ONLY a valid JSON object.
2.  Do not include any text before or after the JSON (e.g., no "Here is the JSON..." or markdown backticks).
3.  If a value is not found, return null for that field, except for the "skills" field. For the "skills" field, return the "Beginner (15%)" level.
4.  The "skills" field must be a list of objects, like:
    "skills": [
      { "type": "Programming Languages", "skill": "Python", "level": "Advanced (80%)" },
      { "type": "Languages", "skill": "English", "level": "C1 (85%)" }
    ]
5. Skill levels for different type:
  - "Programming Languages": "Beginner (15%)", "Elementary (25%)", "Intermediate (50%)", "Advanced (80%)", "Expert (100%)";
  - "Languages": "C2 (100%)", "C1 (85%)", "B2 (75%)", "B1 (60%)", "A2 (40%)", "A1 (10%)";
  - "IT": "Beginner (15%)", "Elementary (25%)", "Intermediate (50%)", "Advanced (80%)", "Expert (100%)";
  - "Soft Skills": "Beginner (15%)", "Elementary (25%)", "Intermediate (50%)", "Advanced (80%)", "Expert (100%)";
  - "Marketing": (L4 (100%), L3 (75%), L2 (50%), L1 (25%)).


JSON:
`
